package commands

import (
	"encoding/json"
	"fmt"
	"io"

	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
)

// RunMintToken mints a delegated token for the given OBO token and writes
// it to the writer. Useful for calling the integration API by hand.
func RunMintToken(
	tokens identityService.TokenService,
	writer io.Writer,
	oboToken string,
	format string,
) error {
	identity, err := tokens.IdentityFromToken(oboToken)
	if err != nil {
		return fmt.Errorf("failed to decode obo token: %w", err)
	}

	minted, err := tokens.Mint(identity)
	if err != nil {
		return fmt.Errorf("failed to mint delegated token: %w", err)
	}

	switch format {
	case "json":
		return json.NewEncoder(writer).Encode(map[string]string{
			"sub":   identity.Subject,
			"token": minted,
		})
	case "text":
		_, err := fmt.Fprintln(writer, minted)
		return err
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}
