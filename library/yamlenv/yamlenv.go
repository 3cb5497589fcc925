package yamlenv

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// placeholder формата ${VAR} или ${VAR:default}
var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// Env — значение конфигурации, читаемое из yaml с подстановкой
// переменных окружения. Скалярные узлы вида ${VAR:default}
// разворачиваются перед декодированием в T.
type Env[T any] struct {
	Value T
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		expanded := placeholder.ReplaceAllStringFunc(node.Value, func(match string) string {
			groups := placeholder.FindStringSubmatch(match)
			if v, ok := os.LookupEnv(groups[1]); ok {
				return v
			}
			return groups[2]
		})

		if expanded != node.Value {
			resolved := *node
			resolved.Value = expanded
			resolved.Style = 0
			resolved.Tag = ""
			node = &resolved
		}
	}

	if err := node.Decode(&e.Value); err != nil {
		return fmt.Errorf("yamlenv: decode %q: %w", node.Value, err)
	}

	return nil
}

func (e *Env[T]) MarshalYAML() (any, error) {
	return e.Value, nil
}
