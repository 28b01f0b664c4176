package report

import (
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

// filenameReplacer normalizes path-hostile characters in filename parts.
var filenameReplacer = strings.NewReplacer("/", "_", `\`, "_", "-", "_")

// Filename returns the export filename of a report:
// "Relatorio_Vistoria_<prefix>_<date>.pdf". Slashes, backslashes and
// hyphens become underscores, and spaces in the date as well.
func Filename(prefix, date string) string {
	return FilenameExt(prefix, date, "pdf")
}

// FilenameExt is Filename with another extension.
func FilenameExt(prefix, date, ext string) string {
	p := filenameReplacer.Replace(strings.TrimSpace(prefix))
	d := filenameReplacer.Replace(strings.TrimSpace(date))
	d = strings.ReplaceAll(d, " ", "_")
	return "Relatorio_Vistoria_" + p + "_" + d + "." + strings.TrimPrefix(ext, ".")
}

// FilenameFor returns the export filename of a report in a given format.
// The date is the date part of the submission time.
func FilenameFor(r *model.Report, f Format) string {
	return FilenameExt(r.Summary.Prefix, r.Summary.DatePart(), f.Ext())
}
