package commands

import (
	"encoding/json"
	"fmt"
	"io"

	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
)

// RunAuthorizationCode generates a partner authorization code and writes it
// to the writer. format is "text" or "json".
func RunAuthorizationCode(
	generator identityService.AuthorizationCodeGenerator,
	writer io.Writer,
	format string,
) error {
	code, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate authorization code: %w", err)
	}

	switch format {
	case "json":
		return json.NewEncoder(writer).Encode(map[string]string{"authorizationCode": code})
	case "text":
		_, err := fmt.Fprintln(writer, code)
		return err
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}
