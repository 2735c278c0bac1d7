package registry

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cobaltstack/chainforge/internal/capability"
)

// declarationsDoc is the YAML document shape for statically authored
// interface shapes and compatibility matrices:
//
//	shapes:
//	  - name: IEVMWallet
//	    capabilities: [core_wallet, transaction_handler]
//	matrices:
//	  - module: crosschain
//	    adapter: staticrouter
//	    version: 1.0.0
//	    requires:
//	      wallet: [core_wallet, transaction_handler]
type declarationsDoc struct {
	Shapes []struct {
		Name         string   `yaml:"name"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"shapes"`
	Matrices []struct {
		Module   string              `yaml:"module"`
		Adapter  string              `yaml:"adapter"`
		Version  string              `yaml:"version"`
		Requires map[string][]string `yaml:"requires"`
	} `yaml:"matrices"`
}

// LoadDeclarations reads a YAML declarations document and registers its
// interface shapes and compatibility matrices into r. Capability names must
// belong to the closed capability set.
func (r *Registry) LoadDeclarations(src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read declarations: %w", err)
	}

	var doc declarationsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse declarations: %w", err)
	}

	for _, s := range doc.Shapes {
		if s.Name == "" {
			return fmt.Errorf("declarations: shape with empty name")
		}
		caps, err := toCapabilities(s.Capabilities)
		if err != nil {
			return fmt.Errorf("shape %s: %w", s.Name, err)
		}
		r.RegisterInterfaceShape(s.Name, caps)
	}

	for _, m := range doc.Matrices {
		if m.Module == "" || m.Adapter == "" || m.Version == "" {
			return fmt.Errorf("declarations: matrix missing module/adapter/version")
		}
		requires := make(map[string][]capability.Capability, len(m.Requires))
		for target, names := range m.Requires {
			caps, err := toCapabilities(names)
			if err != nil {
				return fmt.Errorf("matrix %s/%s@%s target %s: %w", m.Module, m.Adapter, m.Version, target, err)
			}
			requires[target] = caps
		}
		r.RegisterCompatibilityMatrix(m.Module, CompatibilityMatrix{
			Adapter:  m.Adapter,
			Version:  m.Version,
			Requires: requires,
		})
	}

	return nil
}

func toCapabilities(names []string) ([]capability.Capability, error) {
	caps := make([]capability.Capability, 0, len(names))
	for _, n := range names {
		c := capability.Capability(n)
		if !capability.Known(c) {
			return nil, fmt.Errorf("unknown capability %q", n)
		}
		caps = append(caps, c)
	}
	return caps, nil
}
