package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets one setting in the config file, creating intermediate
// mappings as needed. The key path is split on "::" so that dotted color
// tokens stay intact, e.g. "theme::colors::diff.inserted". Comments and
// formatting elsewhere in the file are preserved by editing the yaml.Node
// tree.
func SetValue(configPath, keyPath, value string) error {
	keys := strings.Split(keyPath, "::")
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("invalid key path %q", keyPath)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return errors.New("parsing config: top level is not a mapping")
	}

	if err := setNode(doc.Content[0], keys, value); err != nil {
		return fmt.Errorf("setting %s: %w", keyPath, err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// setNode walks or creates mappings along keys and sets the final scalar.
func setNode(m *yaml.Node, keys []string, value string) error {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != keys[0] {
			continue
		}
		child := m.Content[i+1]
		if len(keys) == 1 {
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("%s is not a scalar", keys[0])
			}
			child.Value = value
			child.Tag = ""
			child.Style = 0
			return nil
		}
		if child.Kind != yaml.MappingNode {
			if child.Kind == yaml.ScalarNode && (child.Tag == "!!null" || child.Value == "") {
				*child = yaml.Node{Kind: yaml.MappingNode}
			} else {
				return fmt.Errorf("%s is not a mapping", keys[0])
			}
		}
		return setNode(child, keys[1:], value)
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: keys[0]}
	if len(keys) == 1 {
		m.Content = append(m.Content, keyNode, &yaml.Node{Kind: yaml.ScalarNode, Value: value})
		return nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, keyNode, child)
	return setNode(child, keys[1:], value)
}

// writeAtomic writes to a temp file in the same directory, then renames it.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".panediff.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
