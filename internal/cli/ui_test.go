package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintHelpersWriteToWriter(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "Imported %d", 2)
	printError(&buf, "failed %s", "crypt")
	printWarning(&buf, "careful")
	printInfo(&buf, "serving")
	printDetail(&buf, "snapped")
	printFile(&buf, "/tmp/out.toml")
	printKeyValue(&buf, "Cell size", "50")
	printNextStep(&buf, "Open a scene", "battlemap view")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 8)
	for i, want := range []string{"Imported 2", "failed crypt", "careful", "serving", "snapped", "/tmp/out.toml", "50", "battlemap view"} {
		assert.Contains(t, lines[i], want)
	}
}
