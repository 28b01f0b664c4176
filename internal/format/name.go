package format

import (
	"regexp"
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

// boilerplatePrefixes are form-builder prefixes removed from item names.
var boilerplatePrefixes = []string{
	"Campo para observações pontuais sobre",
	"Campo para fotografias pontuais sobre",
}

// areaMarkerPattern matches a leading bracketed marker such as "[SALÃO] ".
var areaMarkerPattern = regexp.MustCompile(`^\[([^\]]+)\]\s*`)

// ItemName derives a display name from a column name. Boilerplate prefixes
// are removed, then a leading bracketed area marker. The column name is
// returned unchanged when nothing would be left.
func ItemName(column string) string {
	name := column
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimSpace(strings.ReplaceAll(name, prefix, ""))
			break
		}
	}

	if m := areaMarkerPattern.FindStringSubmatch(name); m != nil && model.ParseArea(m[1]).Known() {
		name = strings.TrimSpace(name[len(m[0]):])
	}

	if name == "" {
		return column
	}
	return name
}
