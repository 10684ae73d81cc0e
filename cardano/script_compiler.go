package cardanotx

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-hclog"
)

// Blueprint is the subset of an aiken plutus.json needed to load validators
type Blueprint struct {
	Preamble struct {
		Title         string `json:"title"`
		Version       string `json:"version"`
		PlutusVersion string `json:"plutusVersion"`
	} `json:"preamble"`
	Validators []BlueprintValidator `json:"validators"`
}

type BlueprintValidator struct {
	Title        string `json:"title"`
	CompiledCode string `json:"compiledCode"`
	Hash         string `json:"hash"`
}

func LoadBlueprint(path string) (*Blueprint, error) {
	blueprint, err := common.LoadJson[Blueprint](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}

	if len(blueprint.Validators) == 0 {
		return nil, fmt.Errorf("blueprint %s has no validators", path)
	}

	return blueprint, nil
}

// Template selects a validator by its title or by its position (e.g. "2")
func (b *Blueprint) Template(selector string) (core.ScriptTemplate, error) {
	validator, err := b.find(selector)
	if err != nil {
		return core.ScriptTemplate{}, err
	}

	code, err := hex.DecodeString(validator.CompiledCode)
	if err != nil {
		return core.ScriptTemplate{}, fmt.Errorf("invalid compiled code of %s: %w", validator.Title, err)
	}

	version := core.PlutusV3
	if strings.EqualFold(b.Preamble.PlutusVersion, "v2") {
		version = core.PlutusV2
	}

	return core.ScriptTemplate{
		Title:   validator.Title,
		Code:    code,
		Version: version,
	}, nil
}

func (b *Blueprint) find(selector string) (*BlueprintValidator, error) {
	for i, x := range b.Validators {
		if x.Title == selector {
			return &b.Validators[i], nil
		}
	}

	if idx, err := strconv.Atoi(selector); err == nil && idx >= 0 && idx < len(b.Validators) {
		return &b.Validators[idx], nil
	}

	return nil, fmt.Errorf("validator %s not found in blueprint", selector)
}

type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecCommandRunner runs the command and returns its standard output
func ExecCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}

		return nil, fmt.Errorf("%s failed: %w", name, err)
	}

	return out, nil
}

// ScriptCompiler applies parameters to validator templates using an external command.
// The command is called with the compiled code and the cbor of every parameter (all hex)
// and must print a text envelope of the resulting script.
type ScriptCompiler struct {
	command []string
	runner  CommandRunner
	logger  hclog.Logger
}

var _ core.ScriptCompiler = (*ScriptCompiler)(nil)

func NewScriptCompiler(command []string, runner CommandRunner, logger hclog.Logger) *ScriptCompiler {
	if runner == nil {
		runner = ExecCommandRunner
	}

	return &ScriptCompiler{
		command: command,
		runner:  runner,
		logger:  logger,
	}
}

// ApplyParams implements core.ScriptCompiler.
func (c *ScriptCompiler) ApplyParams(
	ctx context.Context, template core.ScriptTemplate, params [][]byte,
) (*core.ScriptWitness, error) {
	if len(params) == 0 {
		return &core.ScriptWitness{
			Code:    template.Code,
			Version: template.Version,
		}, nil
	}

	if len(c.command) == 0 {
		return nil, errors.New("script apply params command not configured")
	}

	args := append(append([]string{}, c.command[1:]...), hex.EncodeToString(template.Code))

	for _, param := range params {
		paramCbor, err := core.EncodePlutusData(core.NewBytes(param))
		if err != nil {
			return nil, err
		}

		args = append(args, hex.EncodeToString(paramCbor))
	}

	c.logger.Debug("Applying script params", "validator", template.Title, "cmd", c.command[0], "args", args)

	out, err := c.runner(ctx, c.command[0], args...)
	if err != nil {
		return nil, err
	}

	var envelope TextEnvelope
	if err := json.Unmarshal(out, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Plutus script JSON: %w", err)
	}

	code, err := envelope.ScriptCode()
	if err != nil {
		return nil, err
	}

	return &core.ScriptWitness{
		Code:    code,
		Version: template.Version,
	}, nil
}

// TextEnvelope is the cardano-cli file format for keys, scripts and transactions
type TextEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

func NewScriptEnvelope(script *core.ScriptWitness) (*TextEnvelope, error) {
	data, err := cbor.Marshal(script.Code)
	if err != nil {
		return nil, err
	}

	return &TextEnvelope{
		Type:    script.Version.EnvelopeType(),
		CborHex: hex.EncodeToString(data),
	}, nil
}

func (e TextEnvelope) Bytes() ([]byte, error) {
	data, err := hex.DecodeString(e.CborHex)
	if err != nil {
		return nil, fmt.Errorf("invalid cbor hex in %s envelope: %w", e.Type, err)
	}

	return data, nil
}

// ScriptCode removes the outer byte string of an enveloped script
func (e TextEnvelope) ScriptCode() ([]byte, error) {
	data, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	var code []byte
	if err := cbor.Unmarshal(data, &code); err != nil {
		return nil, fmt.Errorf("invalid script in %s envelope: %w", e.Type, err)
	}

	return code, nil
}
