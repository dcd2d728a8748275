// Package ocr reads the holder's name and ID card number off a scanned
// Vietnamese citizen ID card using a third-party OCR service.
package ocr

import (
	"regexp"
	"strings"
)

// Result holds the fields recognised on the card; either may be missing.
type Result struct {
	Name     string `json:"name,omitempty"`
	IDNumber string `json:"idNumber,omitempty"`
}

var (
	idNumberPattern = regexp.MustCompile(`(?i)Số\s*/\s*No\.?:\s*(\d+)`)
	// The name may sit on the line after the label.
	namePattern = regexp.MustCompile(`(?i)Họ và tên\s*/\s*Full name:\s*([\p{L}\p{M} ]+)`)
)

// Extract pulls the bilingual "Số / No." and "Họ và tên / Full name" fields
// out of recognised text.
func Extract(text string) Result {
	var result Result
	if m := idNumberPattern.FindStringSubmatch(text); m != nil {
		result.IDNumber = m[1]
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		result.Name = strings.TrimSpace(m[1])
	}
	return result
}
