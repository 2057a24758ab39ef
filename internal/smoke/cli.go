package smoke

import "os"

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Pokemons API Smoke Test
=======================

Runs create, list, get, update, delete and docs checks against a live server.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -timeout duration
        HTTP request timeout (default 10s)
  -body string
        JSON object used to create the pokemon (default ` + DefaultBody + `)
  -verbose
        Log every passing check
  -help
        Show this help message

Exit status is 1 when any check fails.
`)
}
