package yamlreader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NewConfig читает yaml-файл конфигурации в структуру T.
// Подстановка переменных окружения выполняется на уровне
// полей yamlenv.Env при декодировании.
func NewConfig[T any](path string) (*T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var cfg T
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return &cfg, nil
}
