package output

import (
	"encoding/json"

	"github.com/jaxxstorm/netcheck/internal/model"
)

func RenderJSON(report model.Report) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
