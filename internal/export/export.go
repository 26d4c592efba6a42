// Package export сериализует результаты запусков для хранения
// и выгрузки. Документы результатов крупные (помесячные серии по
// всем офисам), поэтому используется goccy/go-json.
package export

import (
	"github.com/goccy/go-json"
	"github.com/workforce-planning-api/internal/simulation"
)

// MarshalRunResult сериализует результат запуска в JSON
func MarshalRunResult(result *simulation.RunResult) ([]byte, error) {
	return json.Marshal(result)
}

// UnmarshalRunResult восстанавливает результат запуска из JSON
func UnmarshalRunResult(data []byte) (*simulation.RunResult, error) {
	var result simulation.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
