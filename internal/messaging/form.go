package messaging

import (
	"bytes"
	"text/template"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

const generalAgendaTemplateText = `<?xml version="1.0" encoding="utf-8"?>
<GeneralAgenda xmlns="http://schemas.gov.sk/form/App.GeneralAgenda/1.9" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <subject>{{xml .Subject}}</subject>
  <text>{{xml .Text}}</text>
</GeneralAgenda>
`

var generalAgendaTemplate = template.Must(
	template.New("general_agenda").
		Funcs(template.FuncMap{"xml": escapeXML}).
		Parse(generalAgendaTemplateText),
)

// BuildGeneralAgendaForm renders the general agenda form XML that becomes
// the submission's form object.
func BuildGeneralAgendaForm(subject, text string) (string, error) {
	var buf bytes.Buffer
	err := generalAgendaTemplate.Execute(&buf, struct {
		Subject string
		Text    string
	}{Subject: subject, Text: text})
	if err != nil {
		return "", apperrors.Wrap(err, "rendering general agenda form")
	}

	return buf.String(), nil
}
