package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

func privateKeyMeta() *registry.AdapterMetadata {
	return &registry.AdapterMetadata{
		Name:    "ethers",
		Version: "1.0.0",
		Capabilities: []capability.Capability{
			capability.CoreWallet,
			capability.TransactionHandler,
		},
		Requirements: []schema.Requirement{
			{
				Path:    "options.privateKey",
				Type:    schema.TypeString,
				Message: "options.privateKey is required",
			},
		},
	}
}

func input(meta *registry.AdapterMetadata, reg *registry.Registry, params map[string]any) Input {
	return Input{
		Name:      meta.Name,
		Version:   meta.Version,
		Params:    params,
		Meta:      meta,
		Registry:  reg,
		Operation: "wallet.New",
	}
}

func TestRequirementPresent(t *testing.T) {
	err := Validate(input(privateKeyMeta(), registry.New(), map[string]any{
		"options": map[string]any{"privateKey": "0xabc"},
	}))
	assert.NoError(t, err)
}

func TestRequirementMissing(t *testing.T) {
	err := Validate(input(privateKeyMeta(), registry.New(), map[string]any{
		"options": map[string]any{},
	}))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeMissingRequirement))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "options.privateKey", ae.Details["path"])
	assert.Contains(t, ae.Message, "options.privateKey is required")
}

func TestRequirementWrongType(t *testing.T) {
	err := Validate(input(privateKeyMeta(), registry.New(), map[string]any{
		"options": map[string]any{"privateKey": 123},
	}))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeInvalidRequirementType))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "string", ae.Details["expected_type"])
	assert.Equal(t, "number", ae.Details["actual_type"])
}

func TestRequirementPresentButNil(t *testing.T) {
	err := Validate(input(privateKeyMeta(), registry.New(), map[string]any{
		"options": map[string]any{"privateKey": nil},
	}))
	assert.True(t, types.IsCode(err, types.ErrCodeMissingRequirement))
}

func TestRequirementAllowUndefined(t *testing.T) {
	meta := privateKeyMeta()
	meta.Requirements[0].AllowUndefined = true

	err := Validate(input(meta, registry.New(), map[string]any{
		"options": map[string]any{},
	}))
	assert.NoError(t, err)
}

func TestRequirementTypeVariants(t *testing.T) {
	tests := []struct {
		name    string
		reqType schema.FieldType
		value   any
		wantErr bool
	}{
		{"array value matches array", schema.TypeArray, []any{"a"}, false},
		{"array value is not object", schema.TypeObject, []any{"a"}, true},
		{"map matches object", schema.TypeObject, map[string]any{}, false},
		{"bool matches boolean", schema.TypeBoolean, true, false},
		{"float matches number", schema.TypeNumber, 1.5, false},
		{"func matches function", schema.TypeFunction, func() {}, false},
		{"any accepts anything", schema.TypeAny, struct{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := privateKeyMeta()
			meta.Requirements = []schema.Requirement{
				{Path: "options.value", Type: tt.reqType, Message: "options.value is required"},
			}
			err := Validate(input(meta, registry.New(), map[string]any{
				"options": map[string]any{"value": tt.value},
			}))
			if tt.wantErr {
				assert.True(t, types.IsCode(err, types.ErrCodeInvalidRequirementType))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathTerminatesAtPrimitive(t *testing.T) {
	meta := privateKeyMeta()
	meta.Requirements = []schema.Requirement{
		{Path: "options.rpc.url", Type: schema.TypeString, Message: "options.rpc.url is required"},
	}

	// options.rpc is a string, so the remaining segment cannot resolve.
	err := Validate(input(meta, registry.New(), map[string]any{
		"options": map[string]any{"rpc": "not-an-object"},
	}))
	assert.True(t, types.IsCode(err, types.ErrCodeMissingRequirement))
}

func TestInterfaceShapeSatisfied(t *testing.T) {
	reg := registry.New()
	reg.RegisterInterfaceShape("ICoreWallet", []capability.Capability{capability.CoreWallet})

	err := Validate(input(privateKeyMeta(), reg, map[string]any{
		"options":            map[string]any{"privateKey": "0xabc"},
		ExpectedInterfaceKey: "ICoreWallet",
	}))
	assert.NoError(t, err)
}

func TestInterfaceShapeMissingCapability(t *testing.T) {
	reg := registry.New()
	reg.RegisterInterfaceShape("IEVMWallet", []capability.Capability{
		capability.CoreWallet,
		capability.TypedDataSigner,
	})

	err := Validate(input(privateKeyMeta(), reg, map[string]any{
		"options":            map[string]any{"privateKey": "0xabc"},
		ExpectedInterfaceKey: "IEVMWallet",
	}))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeIncompatibleAdapter))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, string(capability.TypedDataSigner), ae.Details["missing_capability"])
	assert.Equal(t, "IEVMWallet", ae.Details["interface"])
}

func TestInterfaceShapeUnknown(t *testing.T) {
	err := Validate(input(privateKeyMeta(), registry.New(), map[string]any{
		"options":            map[string]any{"privateKey": "0xabc"},
		ExpectedInterfaceKey: "INeverRegistered",
	}))
	require.Error(t, err)
	// An unregistered shape is a wiring bug, not a user input error.
	assert.True(t, types.IsCode(err, types.ErrCodeRegistryMisconfigured))
}

func TestShapeCheckedBeforeRequirements(t *testing.T) {
	reg := registry.New()
	reg.RegisterInterfaceShape("IEVMWallet", []capability.Capability{capability.TypedDataSigner})

	// Both the shape and the requirement would fail; the shape failure wins.
	err := Validate(input(privateKeyMeta(), reg, map[string]any{
		"options":            map[string]any{},
		ExpectedInterfaceKey: "IEVMWallet",
	}))
	assert.True(t, types.IsCode(err, types.ErrCodeIncompatibleAdapter))
}
