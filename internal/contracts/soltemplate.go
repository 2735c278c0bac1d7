package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/cobaltstack/chainforge/pkg/types"
)

// SolTemplate is the in-process contract generation backend. It renders
// Solidity skeletons from a small built-in template catalog. Compilation
// requires an external toolchain this backend does not bundle, so
// CompileContract always fails with a mapped code.
type SolTemplate struct {
	name    string
	version string
	license string
	pragma  string
}

const (
	defaultLicense = "MIT"
	defaultPragma  = "^0.8.20"
)

var contractTemplates = map[string]*template.Template{
	"erc20": template.Must(template.New("erc20").Parse(`// SPDX-License-Identifier: {{.License}}
pragma solidity {{.Pragma}};

contract {{.Name}} {
    string public name = "{{.Name}}";
    string public symbol = "{{.Symbol}}";
    uint8 public constant decimals = 18;
    uint256 public totalSupply;

    mapping(address => uint256) public balanceOf;
    mapping(address => mapping(address => uint256)) public allowance;

    event Transfer(address indexed from, address indexed to, uint256 value);
    event Approval(address indexed owner, address indexed spender, uint256 value);

    function transfer(address to, uint256 value) external returns (bool) {
        require(balanceOf[msg.sender] >= value, "insufficient balance");
        balanceOf[msg.sender] -= value;
        balanceOf[to] += value;
        emit Transfer(msg.sender, to, value);
        return true;
    }
}
`)),
	"erc721": template.Must(template.New("erc721").Parse(`// SPDX-License-Identifier: {{.License}}
pragma solidity {{.Pragma}};

contract {{.Name}} {
    string public name = "{{.Name}}";
    string public symbol = "{{.Symbol}}";

    mapping(uint256 => address) public ownerOf;
    mapping(address => uint256) public balanceOf;

    event Transfer(address indexed from, address indexed to, uint256 indexed tokenId);
}
`)),
	"custom": template.Must(template.New("custom").Parse(`// SPDX-License-Identifier: {{.License}}
pragma solidity {{.Pragma}};

contract {{.Name}} {
}
`)),
}

// NewSolTemplate is the soltemplate construction handle registered with the
// contracts module. All options are optional and defaulted.
func NewSolTemplate(_ context.Context, opts types.CreateOptions) (any, error) {
	license, _ := opts.Options["defaultLicense"].(string)
	if license == "" {
		license = defaultLicense
	}
	pragma, _ := opts.Options["pragma"].(string)
	if pragma == "" {
		pragma = defaultPragma
	}
	return &SolTemplate{
		name:    opts.Name,
		version: opts.Version,
		license: license,
		pragma:  pragma,
	}, nil
}

func (s *SolTemplate) Name() string    { return s.name }
func (s *SolTemplate) Version() string { return s.version }
func (s *SolTemplate) Close() error    { return nil }

func (s *SolTemplate) ListTemplates() []string {
	out := make([]string, 0, len(contractTemplates))
	for name := range contractTemplates {
		out = append(out, name)
	}
	return out
}

func (s *SolTemplate) GenerateContract(_ context.Context, spec *types.ContractSpec) (*types.ContractSource, error) {
	if spec == nil || spec.Name == "" {
		return nil, errors.New("contract spec has no name")
	}
	tmpl, ok := contractTemplates[spec.Template]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", spec.Template)
	}

	license := spec.License
	if license == "" {
		license = s.license
	}
	pragma := spec.Pragma
	if pragma == "" {
		pragma = s.pragma
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, map[string]string{
		"Name":    spec.Name,
		"Symbol":  spec.Symbol,
		"License": license,
		"Pragma":  pragma,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", spec.Template, err)
	}

	return &types.ContractSource{
		Name:     spec.Name,
		Language: "solidity",
		Source:   sb.String(),
	}, nil
}

func (s *SolTemplate) CompileContract(_ context.Context, src *types.ContractSource) (*types.CompiledContract, error) {
	name := "<nil>"
	if src != nil {
		name = src.Name
	}
	return nil, fmt.Errorf("compiler unavailable: no solc toolchain configured for %s", name)
}
