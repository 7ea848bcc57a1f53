// Package messaging builds SkTalk submission envelopes and talks to the
// slovensko.sk message gateway.
package messaging

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"

	"github.com/google/uuid"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

// EnvelopeObject is one payload object of the envelope, the form or an
// attachment. Content must already be base64.
type EnvelopeObject struct {
	Name        string
	Description string
	MimeType    string
	Content     string
	IsSigned    bool
}

// EnvelopeInput carries everything the envelope references. SenderID is the
// citizen's subject as decoded (unverified) from the OBO token.
type EnvelopeInput struct {
	SenderID    string
	Subject     string
	Form        EnvelopeObject
	Attachments []EnvelopeObject
}

type envelopeObjectData struct {
	EnvelopeObject
	ID    string
	Class string
}

type envelopeData struct {
	MessageID     string
	CorrelationID string
	SenderID      string
	Subject       string
	Objects       []envelopeObjectData
}

const envelopeTemplateText = `<?xml version="1.0" encoding="utf-8"?>
<SKTalkMessage xmlns="http://gov.sk/SKTalkMessage">
  <EnvelopeVersion>3.0</EnvelopeVersion>
  <Header>
    <MessageInfo>
      <Class>EGOV_APPLICATION</Class>
      <PospID>App.GeneralAgenda</PospID>
      <PospVersion>1.9</PospVersion>
      <MessageID>{{.MessageID}}</MessageID>
      <CorrelationID>{{.CorrelationID}}</CorrelationID>
    </MessageInfo>
  </Header>
  <Body>
    <MessageContainer xmlns="http://schemas.gov.sk/core/MessageContainer/1.0">
      <MessageId>{{.MessageID}}</MessageId>
      <SenderId>{{xml .SenderID}}</SenderId>
      <RecipientId>ico://sk/42156424</RecipientId>
      <MessageType>App.GeneralAgenda</MessageType>
      <MessageSubject>{{xml .Subject}}</MessageSubject>
{{- range .Objects}}
      <Object Id="{{.ID}}" Name="{{xml .Name}}" Description="{{xml .Description}}" Class="{{.Class}}" MimeType="{{.MimeType}}" Encoding="Base64" IsSigned="{{.IsSigned}}">{{.Content}}</Object>
{{- end}}
    </MessageContainer>
  </Body>
</SKTalkMessage>
`

var envelopeTemplate = template.Must(
	template.New("sktalk_envelope").
		Funcs(template.FuncMap{"xml": escapeXML}).
		Parse(envelopeTemplateText),
)

// BuildEnvelope renders the receive_and_save_to_outbox envelope. Every call
// assigns fresh message, correlation and object identifiers.
func BuildEnvelope(input *EnvelopeInput) (string, error) {
	if input.SenderID == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "envelope requires a sender id")
	}

	data := envelopeData{
		MessageID:     uuid.NewString(),
		CorrelationID: uuid.NewString(),
		SenderID:      input.SenderID,
		Subject:       input.Subject,
		Objects: []envelopeObjectData{
			{EnvelopeObject: input.Form, ID: uuid.NewString(), Class: "FORM"},
		},
	}
	for _, attachment := range input.Attachments {
		data.Objects = append(data.Objects, envelopeObjectData{
			EnvelopeObject: attachment,
			ID:             uuid.NewString(),
			Class:          "ATTACHMENT",
		})
	}

	var buf bytes.Buffer
	if err := envelopeTemplate.Execute(&buf, data); err != nil {
		return "", apperrors.Wrap(err, "rendering sktalk envelope")
	}

	return buf.String(), nil
}

func escapeXML(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
