package cardanotx

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlueprint = `{
  "preamble": {"title": "cip68/lifecycle", "version": "0.0.0", "plutusVersion": "v2"},
  "validators": [
    {"title": "burn.simple", "compiledCode": "4e4d01000033222220051200120011", "hash": "00"},
    {"title": "unused.spend", "compiledCode": "4e4d01000033222220051200120012", "hash": "01"},
    {"title": "cip68.mint", "compiledCode": "4e4d01000033222220051200120013", "hash": "02"},
    {"title": "cip68.spend", "compiledCode": "4e4d01000033222220051200120013", "hash": "02"}
  ]
}`

func writeTestBlueprint(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plutus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func TestBlueprint(t *testing.T) {
	blueprint, err := LoadBlueprint(writeTestBlueprint(t, testBlueprint))
	require.NoError(t, err)

	byTitle, err := blueprint.Template("cip68.mint")
	require.NoError(t, err)
	assert.Equal(t, "cip68.mint", byTitle.Title)
	assert.Equal(t, core.PlutusV2, byTitle.Version)
	assert.Equal(t, "4e4d01000033222220051200120013", hex.EncodeToString(byTitle.Code))

	byIndex, err := blueprint.Template("0")
	require.NoError(t, err)
	assert.Equal(t, "burn.simple", byIndex.Title)

	_, err = blueprint.Template("7")
	require.ErrorContains(t, err, "not found")

	_, err = blueprint.Template("missing")
	require.ErrorContains(t, err, "not found")

	_, err = LoadBlueprint(writeTestBlueprint(t, `{"validators": []}`))
	require.ErrorContains(t, err, "has no validators")

	_, err = LoadBlueprint(filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)

	v3, err := LoadBlueprint(writeTestBlueprint(t,
		`{"preamble": {"plutusVersion": "v3"}, "validators": [{"title": "a", "compiledCode": "zz"}]}`))
	require.NoError(t, err)

	_, err = v3.Template("a")
	require.ErrorContains(t, err, "invalid compiled code")
}

func TestScriptCompiler_ApplyParams(t *testing.T) {
	ctx := context.Background()
	pkh, _ := hex.DecodeString(testPaymentKeyHash)
	template := core.ScriptTemplate{
		Title:   "cip68.mint",
		Code:    []byte{0x4e, 0x4d, 0x01},
		Version: core.PlutusV2,
	}

	t.Run("without params", func(t *testing.T) {
		compiler := NewScriptCompiler(nil, func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("must not be called")
		}, hclog.NewNullLogger())

		witness, err := compiler.ApplyParams(ctx, template, nil)
		require.NoError(t, err)
		assert.Equal(t, template.Code, witness.Code)
		assert.Equal(t, template.Version, witness.Version)
	})

	t.Run("with params", func(t *testing.T) {
		var (
			calledName string
			calledArgs []string
		)

		compiler := NewScriptCompiler([]string{"aiken", "blueprint", "apply"},
			func(_ context.Context, name string, args ...string) ([]byte, error) {
				calledName, calledArgs = name, args

				return []byte(`{"type": "PlutusScriptV2", "description": "", "cborHex": "4443020100"}`), nil
			}, hclog.NewNullLogger())

		witness, err := compiler.ApplyParams(ctx, template, [][]byte{pkh})
		require.NoError(t, err)

		assert.Equal(t, "aiken", calledName)
		assert.Equal(t, []string{"blueprint", "apply", "4e4d01", "581c" + testPaymentKeyHash}, calledArgs)
		assert.Equal(t, []byte{0x43, 0x02, 0x01, 0x00}, witness.Code)
		assert.Equal(t, core.PlutusV2, witness.Version)
	})

	t.Run("command failure", func(t *testing.T) {
		compiler := NewScriptCompiler([]string{"apply"}, func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("apply failed")
		}, hclog.NewNullLogger())

		_, err := compiler.ApplyParams(ctx, template, [][]byte{pkh})
		require.ErrorContains(t, err, "apply failed")
	})

	t.Run("invalid output", func(t *testing.T) {
		compiler := NewScriptCompiler([]string{"apply"}, func(context.Context, string, ...string) ([]byte, error) {
			return []byte("not json"), nil
		}, hclog.NewNullLogger())

		_, err := compiler.ApplyParams(ctx, template, [][]byte{pkh})
		require.ErrorContains(t, err, "failed to unmarshal Plutus script JSON")
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewScriptCompiler(nil, nil, hclog.NewNullLogger()).ApplyParams(ctx, template, [][]byte{pkh})
		require.ErrorContains(t, err, "not configured")
	})
}

func TestScriptEnvelope(t *testing.T) {
	envelope, err := NewScriptEnvelope(&core.ScriptWitness{Code: []byte{0x43, 0x02, 0x01, 0x00}, Version: core.PlutusV3})
	require.NoError(t, err)

	assert.Equal(t, "PlutusScriptV3", envelope.Type)
	assert.Equal(t, "4443020100", envelope.CborHex)

	code, err := envelope.ScriptCode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x43, 0x02, 0x01, 0x00}, code)

	_, err = TextEnvelope{Type: "Tx", CborHex: "xyz"}.Bytes()
	require.ErrorContains(t, err, "invalid cbor hex")
}
