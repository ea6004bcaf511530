// Where: app/mail-server/userdata.go
// What: User-data rendering.
// Why: Inject the docker-compose document into the boot script template.
package main

import (
	"bytes"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

type userDataInputs struct {
	DockerComposeYml string
}

// buildUserData reads the boot script template and compose file from
// data/ and renders the final user-data document.
func buildUserData() (string, error) {
	compose, err := os.ReadFile("data/docker-compose.yml")
	if err != nil {
		return "", err
	}
	script, err := os.ReadFile("data/user-data.sh")
	if err != nil {
		return "", err
	}
	return renderUserData(string(script), string(compose))
}

// renderUserData executes the user-data template with sprig helpers.
func renderUserData(scriptTemplate, compose string) (string, error) {
	tmpl, err := template.New("user-data").Funcs(sprig.TxtFuncMap()).Parse(scriptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, userDataInputs{DockerComposeYml: compose}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
