package constants

import "strings"

// SpreadsheetExtensions holds the allowed file extensions for roster uploads.
var SpreadsheetExtensions = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
}

// ExtXLS is the legacy binary workbook format, recognized but not parseable.
const ExtXLS = "xls"

// DownloadFilename is the attachment name served for generated forms.
const DownloadFilename = "form_w7_filled.pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsSpreadsheet reports whether the extension belongs to an accepted workbook type.
func IsSpreadsheet(ext string) bool {
	_, ok := SpreadsheetExtensions[NormalizeExt(ext)]
	return ok
}
