package excel

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/xuri/excelize/v2"
)

//go:embed templates/analisis_recursos.xlsx
var embeddedTemplate []byte

func openEmbeddedTemplate() (*excelize.File, error) {
	if len(embeddedTemplate) == 0 {
		return nil, fmt.Errorf("embedded template is empty")
	}
	return excelize.OpenReader(bytes.NewReader(embeddedTemplate))
}
