package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	carouselerrors "github.com/conneroisu/fluentcarousel/internal/errors"
	"github.com/conneroisu/fluentcarousel/internal/types"
	"gopkg.in/yaml.v3"
)

// itemsDocument is the mapping form of an items file. A bare sequence of
// items at the top level is accepted as well.
type itemsDocument struct {
	Items []types.Item `yaml:"items" json:"items"`
}

// LoadItems reads an items file. Files ending in .json are decoded as JSON,
// everything else as YAML. Items without an id receive a generated one;
// duplicate ids are reported together in a validation error.
func LoadItems(path string) ([]types.Item, error) {
	if err := validatePath(path); err != nil {
		return nil, carouselerrors.ErrInvalidPath(path).WithContext("reason", err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, carouselerrors.NewIOError(carouselerrors.ErrCodeItemsFile, "failed to read items file", err).WithPath(path)
	}

	items, err := ParseItems(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		if ce, ok := err.(*carouselerrors.CarouselError); ok {
			return nil, ce.WithPath(path)
		}
		return nil, err
	}

	return items, nil
}

// ParseItems decodes items from YAML, or from JSON when isJSON is set.
func ParseItems(data []byte, isJSON bool) ([]types.Item, error) {
	var items []types.Item
	var err error
	if isJSON {
		items, err = decodeJSONItems(data)
	} else {
		items, err = decodeYAMLItems(data)
	}
	if err != nil {
		return nil, carouselerrors.NewValidationError(carouselerrors.ErrCodeItemsFormat, "failed to parse items").
			WithContext("cause", err.Error())
	}

	types.EnsureIDs(items)

	if problems := types.ValidateItems(items); len(problems) > 0 {
		var vec carouselerrors.ValidationErrorCollection
		for _, problem := range problems {
			vec.Add("items", nil, problem.Error())
		}
		return nil, vec.Err()
	}

	return items, nil
}

func decodeYAMLItems(data []byte) ([]types.Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		var items []types.Item
		if err := root.Content[0].Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	case yaml.MappingNode:
		var doc itemsDocument
		if err := root.Content[0].Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Items, nil
	default:
		return nil, fmt.Errorf("expected a list of items or an 'items' key")
	}
}

func decodeJSONItems(data []byte) ([]types.Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []types.Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var doc itemsDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// SampleItems is the built-in collection used when no items file is set.
func SampleItems() []types.Item {
	return []types.Item{
		{
			ID:          "welcome",
			Title:       "Welcome to Fluent",
			Description: "A carousel built on the Fluent design language.",
			Image:       "https://picsum.photos/seed/fluent-1/960/400",
		},
		{
			ID:          "autoplay",
			Title:       "Autoplay",
			Description: "Slides advance on their own and pause while you hover.",
			Image:       "https://picsum.photos/seed/fluent-2/960/400",
		},
		{
			ID:          "loop",
			Title:       "Wraparound",
			Description: "With loop enabled the last slide leads back to the first.",
			Image:       "https://picsum.photos/seed/fluent-3/960/400",
		},
		{
			ID:          "sync",
			Title:       "External control",
			Description: "A parent can drive the active slide without feedback loops.",
			Image:       "https://picsum.photos/seed/fluent-4/960/400",
		},
	}
}
