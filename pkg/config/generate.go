package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"texpack/pkg/types"
)

// GenerateConfigContent produces the starter texpack.toml written by
// the genconfig command: the built-in defaults commented out, followed
// by a worked example mode.
func GenerateConfigContent() (string, error) {
	example, err := exampleModes()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(commentOutConfigValues(DefaultConfigContent()))
	b.WriteString("\n# Example packing mode. Uncomment and adjust:\n#\n")
	for _, line := range strings.Split(strings.TrimRight(example, "\n"), "\n") {
		if line == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# " + line + "\n")
	}
	return b.String(), nil
}

func exampleModes() (string, error) {
	starter := struct {
		Modes []types.ModeSpec `toml:"modes"`
	}{
		Modes: []types.ModeSpec{
			{
				Name: "ORM",
				Channels: map[types.ChannelSlot]string{
					types.SlotR: "ao",
					types.SlotG: "roughness",
					types.SlotB: "metalness",
				},
			},
		},
	}
	out, err := toml.Marshal(starter)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// commentOutConfigValues takes TOML content and comments out all
// non-comment, non-blank value lines, keeping section headers so the
// structure stays visible.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
