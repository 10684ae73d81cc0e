package cardanotx

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ethernal-Tech/cip68-lifecycle/common"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/hashicorp/go-hclog"
)

const (
	protocolParamsFileName = "protocol-parameters.json"
	txOutFileName          = "tx.json"
)

var errBurnedTokenNotFound = errors.New("burned token not found in wallet utxos")

// CliBalancer completes a transaction plan with `cardano-cli conway transaction build`.
// Arguments are rendered in plan order so every script file and redeemer follows its input or mint.
type CliBalancer struct {
	cardanoCliBinary string
	config           *CardanoChainConfig
	txProvider       cardanowallet.ITxProvider
	runner           CommandRunner
	logger           hclog.Logger
}

var _ core.Balancer = (*CliBalancer)(nil)

func NewCliBalancer(
	config *CardanoChainConfig, txProvider cardanowallet.ITxProvider, runner CommandRunner, logger hclog.Logger,
) (*CliBalancer, error) {
	if config.SocketPath == "" {
		return nil, errors.New("socket path is required for transaction balancing")
	}

	if runner == nil {
		runner = ExecCommandRunner
	}

	return &CliBalancer{
		cardanoCliBinary: cardanowallet.ResolveCardanoCliBinary(config.NetworkID),
		config:           config,
		txProvider:       txProvider,
		runner:           runner,
		logger:           logger,
	}, nil
}

// Complete implements core.Balancer.
func (b *CliBalancer) Complete(ctx context.Context, plan *core.TransactionPlan) (core.UnsignedTx, error) {
	dir, err := os.MkdirTemp("", "cip68-tx")
	if err != nil {
		return core.UnsignedTx{}, err
	}

	defer os.RemoveAll(dir)

	protocolParams, err := b.txProvider.GetProtocolParameters(ctx)
	if err != nil {
		return core.UnsignedTx{}, fmt.Errorf("failed to retrieve protocol parameters: %w", err)
	}

	files := newPlanFiles(dir)

	protocolParamsPath, err := files.write(protocolParamsFileName, protocolParams)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	args, err := b.buildArgs(ctx, plan, files, protocolParamsPath)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	outFilePath := filepath.Join(dir, txOutFileName)
	args = append(args, "--out-file", outFilePath)

	b.logger.Debug("Building transaction", "cmd", b.cardanoCliBinary, "args", strings.Join(args, " "))

	if _, err := b.runner(ctx, b.cardanoCliBinary, args...); err != nil {
		return core.UnsignedTx{}, err
	}

	envelope, err := common.LoadJson[TextEnvelope](outFilePath)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	txRaw, err := envelope.Bytes()
	if err != nil {
		return core.UnsignedTx{}, err
	}

	txHash, err := TxHash(txRaw)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	return core.UnsignedTx{Raw: txRaw, Hash: txHash}, nil
}

func (b *CliBalancer) buildArgs(
	ctx context.Context, plan *core.TransactionPlan, files *planFiles, protocolParamsPath string,
) ([]string, error) {
	if !IsValidOutputAddress(plan.ChangeAddress, plan.Network) {
		return nil, fmt.Errorf("invalid change address %s", plan.ChangeAddress)
	}

	args := []string{"conway", "transaction", "build"}
	usedInputs := map[string]bool{}

	var inputsLovelace uint64

	for _, x := range plan.Inputs {
		args = append(args, "--tx-in", x.Utxo.Ref())
		usedInputs[x.Utxo.Ref()] = true
		inputsLovelace += x.Utxo.Lovelace

		if x.Script == nil {
			continue
		}

		scriptFile, err := files.script(x.Script.Witness)
		if err != nil {
			return nil, err
		}

		redeemerFile, err := files.plutusData("redeemer", x.Script.Redeemer.Data())
		if err != nil {
			return nil, err
		}

		args = append(args, "--tx-in-script-file", scriptFile)

		if x.Script.InlineDatumPresent {
			args = append(args, "--tx-in-inline-datum-present")
		}

		args = append(args, "--tx-in-redeemer-cbor-file", redeemerFile)
	}

	outputArgs, outputsLovelace, err := b.outputArgs(ctx, plan, files, protocolParamsPath)
	if err != nil {
		return nil, err
	}

	if plan.Collateral != nil {
		usedInputs[plan.Collateral.Ref()] = true
	}

	extraInputs, err := b.selectInputs(plan, usedInputs, inputsLovelace, outputsLovelace)
	if err != nil {
		return nil, err
	}

	args = append(args, extraInputs...)
	args = append(args, outputArgs...)

	mintArgs, err := mintArgs(plan, files)
	if err != nil {
		return nil, err
	}

	args = append(args, mintArgs...)

	for _, x := range plan.RequiredSigners {
		args = append(args, "--required-signer-hash", hex.EncodeToString(x))
	}

	if plan.Collateral != nil {
		args = append(args, "--tx-in-collateral", plan.Collateral.Ref())
	}

	args = append(args, "--change-address", plan.ChangeAddress)

	if plan.Network == core.NetworkMainnet {
		args = append(args, "--mainnet")
	} else {
		args = append(args, "--testnet-magic", strconv.FormatUint(uint64(b.networkMagic(plan.Network)), 10))
	}

	return append(args, "--socket-path", b.config.SocketPath), nil
}

func (b *CliBalancer) outputArgs(
	ctx context.Context, plan *core.TransactionPlan, files *planFiles, protocolParamsPath string,
) ([]string, uint64, error) {
	var (
		args []string
		sum  uint64
	)

	for _, x := range plan.Outputs {
		if !IsValidOutputAddress(x.Address, plan.Network) {
			return nil, 0, fmt.Errorf("invalid output address %s", x.Address)
		}

		var datumArgs []string

		if x.InlineDatum != nil {
			datumFile, err := files.plutusData("datum", x.InlineDatum)
			if err != nil {
				return nil, 0, err
			}

			datumArgs = []string{"--tx-out-inline-datum-cbor-file", datumFile}
		}

		lovelace := x.Lovelace
		if lovelace == 0 {
			minUtxo, err := b.minRequiredUtxo(ctx, protocolParamsPath, txOutValue(x, 0), datumArgs)
			if err != nil {
				return nil, 0, err
			}

			lovelace = minUtxo
		}

		sum += lovelace
		args = append(args, "--tx-out", txOutValue(x, lovelace))
		args = append(args, datumArgs...)
	}

	return args, sum, nil
}

func (b *CliBalancer) minRequiredUtxo(
	ctx context.Context, protocolParamsPath string, txOut string, datumArgs []string,
) (uint64, error) {
	args := append([]string{
		"conway", "transaction", "calculate-min-required-utxo",
		"--protocol-params-file", protocolParamsPath,
		"--tx-out", txOut,
	}, datumArgs...)

	out, err := b.runner(ctx, b.cardanoCliBinary, args...)
	if err != nil {
		return 0, err
	}

	// output looks like "Coin 1159390" or "Lovelace 1159390"
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, errors.New("empty calculate-min-required-utxo output")
	}

	value, err := strconv.ParseUint(fields[len(fields)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid calculate-min-required-utxo output %s: %w", strings.TrimSpace(string(out)), err)
	}

	return value, nil
}

// selectInputs adds wallet utxos until the explicit inputs hold every burned token
// and cover outputs, potential fee and min change
func (b *CliBalancer) selectInputs(
	plan *core.TransactionPlan, usedInputs map[string]bool, inputsLovelace, outputsLovelace uint64,
) ([]string, error) {
	pool := make([]core.Utxo, 0, len(plan.SelectFrom))

	for _, x := range plan.SelectFrom {
		if !usedInputs[x.Ref()] {
			pool = append(pool, x)
		}
	}

	tokenInputs, pool, err := selectBurnedTokenInputs(plan, pool)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, 2*len(tokenInputs))

	for _, x := range tokenInputs {
		args = append(args, "--tx-in", x.Ref())
		inputsLovelace += x.Lovelace
	}

	required := outputsLovelace + b.config.GetPotentialFee() + MinUtxoAmountDefault
	if inputsLovelace >= required {
		return args, nil
	}

	infraPool := make([]cardanowallet.Utxo, len(pool))
	for i, x := range pool {
		infraPool[i] = ToInfraUtxo(x)
	}

	selected, err := cardanowallet.GetUTXOsForAmount(
		infraPool, cardanowallet.AdaTokenName, required-inputsLovelace, maxInputs)
	if err != nil {
		return nil, fmt.Errorf("failed to select inputs for %d lovelace: %w", required-inputsLovelace, err)
	}

	for _, x := range selected.Inputs {
		args = append(args, "--tx-in", fmt.Sprintf("%s#%d", x.Hash, x.Index))
	}

	return args, nil
}

// selectBurnedTokenInputs picks pool utxos holding the tokens burned by the plan that explicit inputs do not hold.
// It returns the picked utxos and the remaining pool.
func selectBurnedTokenInputs(plan *core.TransactionPlan, pool []core.Utxo) ([]core.Utxo, []core.Utxo, error) {
	desired := map[string]uint64{}

	for _, x := range plan.Mints {
		if x.Quantity < 0 {
			desired[x.Unit()] += uint64(-x.Quantity)
		}
	}

	if len(desired) == 0 {
		return nil, pool, nil
	}

	for _, x := range plan.Inputs {
		subtractAssets(desired, x.Utxo)
	}

	var selected []core.Utxo

	remaining := make([]core.Utxo, 0, len(pool))

	for _, x := range pool {
		if !holdsAnyUnit(x, desired) {
			remaining = append(remaining, x)

			continue
		}

		selected = append(selected, x)
		subtractAssets(desired, x)
	}

	for unit, amount := range desired {
		if amount > 0 {
			return nil, nil, fmt.Errorf("%w: missing %d of %s", errBurnedTokenNotFound, amount, unit)
		}
	}

	return selected, remaining, nil
}

func holdsAnyUnit(utxo core.Utxo, desired map[string]uint64) bool {
	for unit, amount := range desired {
		if amount > 0 && utxo.HasUnit(unit) {
			return true
		}
	}

	return false
}

func subtractAssets(desired map[string]uint64, utxo core.Utxo) {
	for _, x := range utxo.Assets {
		unit := x.Unit()

		if amount, exists := desired[unit]; exists {
			desired[unit] = amount - min(amount, x.Quantity)
		}
	}
}

func (b *CliBalancer) networkMagic(network core.Network) uint32 {
	if b.config.TestNetMagic != 0 {
		return b.config.TestNetMagic
	}

	return network.Magic()
}

// mintArgs renders a single --mint value followed by one script and redeemer per policy
func mintArgs(plan *core.TransactionPlan, files *planFiles) ([]string, error) {
	if len(plan.Mints) == 0 {
		return nil, nil
	}

	values := make([]string, len(plan.Mints))
	redeemers := map[*core.ScriptWitness]core.Redeemer{}

	var witnesses []*core.ScriptWitness

	for i, x := range plan.Mints {
		values[i] = tokenValue(x.Quantity, x.PolicyID, x.AssetName)

		if _, exists := redeemers[x.Witness]; !exists {
			redeemers[x.Witness] = x.Redeemer
			witnesses = append(witnesses, x.Witness)
		}
	}

	args := []string{"--mint", strings.Join(values, " + ")}

	for _, witness := range witnesses {
		scriptFile, err := files.script(witness)
		if err != nil {
			return nil, err
		}

		redeemerFile, err := files.plutusData("redeemer", redeemers[witness].Data())
		if err != nil {
			return nil, err
		}

		args = append(args, "--mint-script-file", scriptFile, "--mint-redeemer-cbor-file", redeemerFile)
	}

	return args, nil
}

func txOutValue(output core.PlanOutput, lovelace uint64) string {
	var sb strings.Builder

	sb.WriteString(output.Address)
	sb.WriteString("+")
	sb.WriteString(strconv.FormatUint(lovelace, 10))

	for _, x := range output.Assets {
		sb.WriteString("+")
		sb.WriteString(tokenValue(int64(x.Quantity), x.PolicyID, x.Name)) //nolint:gosec
	}

	return sb.String()
}

// planFiles writes script, redeemer and datum files of a single build
type planFiles struct {
	dir     string
	count   int
	scripts map[*core.ScriptWitness]string
}

func newPlanFiles(dir string) *planFiles {
	return &planFiles{
		dir:     dir,
		scripts: map[*core.ScriptWitness]string{},
	}
}

func (f *planFiles) script(witness *core.ScriptWitness) (string, error) {
	if path, exists := f.scripts[witness]; exists {
		return path, nil
	}

	envelope, err := NewScriptEnvelope(witness)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(envelope, "", "    ")
	if err != nil {
		return "", err
	}

	path, err := f.write(fmt.Sprintf("script_%d.plutus", len(f.scripts)), data)
	if err != nil {
		return "", err
	}

	f.scripts[witness] = path

	return path, nil
}

func (f *planFiles) plutusData(prefix string, value core.PlutusData) (string, error) {
	data, err := core.EncodePlutusData(value)
	if err != nil {
		return "", err
	}

	f.count++

	return f.write(fmt.Sprintf("%s_%d.cbor", prefix, f.count), data)
}

func (f *planFiles) write(name string, data []byte) (string, error) {
	path := filepath.Join(f.dir, name)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path, nil
}
