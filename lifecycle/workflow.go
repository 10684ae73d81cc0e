package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
	"github.com/Ethernal-Tech/cip68-lifecycle/telemetry"
	"github.com/hashicorp/go-hclog"
)

// ScriptTemplates are the validators of the blueprint used by the workflow.
// Mint and Spend are the two handlers of the owner keyed CIP-68 validator and share one policy.
type ScriptTemplates struct {
	Mint       core.ScriptTemplate
	Spend      core.ScriptTemplate
	SimpleBurn core.ScriptTemplate
}

type Dependencies struct {
	Provider  core.ChainProvider
	Wallet    core.Wallet
	Compiler  core.ScriptCompiler
	Balancer  core.Balancer
	Resolver  core.ScriptResolver
	Templates ScriptTemplates
	Sleep     SleepFunc
	Logger    hclog.Logger
}

func (d Dependencies) validate() error {
	if d.Provider == nil || d.Wallet == nil || d.Compiler == nil || d.Balancer == nil || d.Resolver == nil {
		return errors.New("missing workflow dependency")
	}

	return nil
}

// Workflow runs a single mint, burn or edit of a CIP-68 pair
type Workflow struct {
	deps   Dependencies
	logger hclog.Logger
}

func NewWorkflow(deps Dependencies) (*Workflow, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Workflow{
		deps:   deps,
		logger: logger,
	}, nil
}

func (w *Workflow) Run(ctx context.Context, req core.Request) (*core.Result, error) {
	result, err := w.run(ctx, req)
	if err != nil {
		telemetry.UpdateTxFailedCounter(string(req.Action), core.ErrorKind(err))
		w.logger.Error("Lifecycle action failed", "action", req.Action, "token", req.TokenName, "err", err)

		return nil, err
	}

	return result, nil
}

func (w *Workflow) run(ctx context.Context, req core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := w.logger.Named(string(req.Action))

	acquirer, err := NewCollateralAcquirer(w.deps.Wallet, req.Collateral, req.Action, w.deps.Sleep, logger)
	if err != nil {
		return nil, err
	}

	collateral, err := acquirer.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	// snapshot after the collateral is settled so a utxo consumed by collateral creation is never used
	walletUtxos, err := w.deps.Wallet.GetUtxos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wallet utxos: %w", err)
	}

	spendable := excludeUtxo(walletUtxos, collateral)
	if len(spendable) == 0 && len(walletUtxos) > 0 {
		// a lone ada-only utxo between the collateral bounds is reused as collateral and nothing is left to spend
		logger.Warn("Collateral is the only wallet utxo, fund the wallet with another utxo",
			"collateral", collateral.Ref(), "lovelace", collateral.Lovelace)

		return nil, fmt.Errorf("%w: collateral %s is the only wallet utxo", core.ErrPlanConstruction, collateral.Ref())
	}

	walletUtxos = spendable

	changeAddress, err := w.deps.Wallet.GetChangeAddress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve change address: %w", err)
	}

	var (
		ownerKeyHash []byte
		params       [][]byte
	)

	if req.RequiresOwnerKey {
		ownerKeyHash, err = w.deps.Resolver.PaymentKeyHash(changeAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve payment key hash: %w", err)
		}

		params = [][]byte{ownerKeyHash}
	}

	witness, err := w.deps.Compiler.ApplyParams(ctx, w.template(req), params)
	if err != nil {
		return nil, fmt.Errorf("failed to apply script params: %w", err)
	}

	policyID, err := w.deps.Resolver.PolicyID(witness)
	if err != nil {
		return nil, err
	}

	scriptAddress, err := w.deps.Resolver.ScriptAddress(witness, req.Network)
	if err != nil {
		return nil, err
	}

	identity := DeriveAssetIdentity(req.TokenName, policyID)

	logger.Debug("Asset identity derived",
		"policy", fmt.Sprintf("%x", policyID), "ref", identity.RefUnit(), "user", identity.UserUnit())

	pc := planContext{
		req:           req,
		identity:      identity,
		witness:       witness,
		scriptAddress: scriptAddress,
		changeAddress: changeAddress,
		ownerKeyHash:  ownerKeyHash,
		walletUtxos:   walletUtxos,
		collateral:    collateral,
	}

	if req.Action == core.ActionEdit || (req.Action == core.ActionBurn && req.RequiresOwnerKey) {
		pc.refUtxo, err = w.fetchReferenceUtxo(ctx, scriptAddress, identity)
		if err != nil {
			return nil, err
		}
	}

	plan, err := buildPlan(pc)
	if err != nil {
		return nil, err
	}

	telemetry.UpdatePlansBuiltCounter(string(req.Action))

	finalizer := NewFinalizer(w.deps.Balancer, w.deps.Wallet, w.deps.Provider, logger)

	tx, err := finalizer.Balance(ctx, plan)
	if err != nil {
		return nil, err
	}

	telemetry.UpdateTxSize(string(req.Action), len(tx.Raw))

	result := &core.Result{
		Action:   req.Action,
		Identity: identity,
		Plan:     plan,
		TxSize:   len(tx.Raw),
	}

	if req.DryRun {
		logger.Info("Dry run, transaction not submitted", "hash", tx.Hash, "size", len(tx.Raw))

		result.TxHash = tx.Hash

		return result, nil
	}

	result.TxHash, err = finalizer.SignAndSubmit(ctx, tx)
	if err != nil {
		return nil, err
	}

	telemetry.UpdateTxSubmittedCounter(string(req.Action))

	return result, nil
}

func (w *Workflow) template(req core.Request) core.ScriptTemplate {
	switch {
	case req.Action == core.ActionMint:
		return w.deps.Templates.Mint
	case req.Action == core.ActionBurn && !req.RequiresOwnerKey:
		return w.deps.Templates.SimpleBurn
	default:
		return w.deps.Templates.Spend
	}
}

func (w *Workflow) fetchReferenceUtxo(
	ctx context.Context, scriptAddress string, identity core.AssetIdentity,
) (core.Utxo, error) {
	utxos, err := w.deps.Provider.FetchUtxosAt(ctx, scriptAddress, identity.RefUnit())
	if err != nil {
		return core.Utxo{}, fmt.Errorf("failed to fetch utxos at %s: %w", scriptAddress, err)
	}

	if len(utxos) == 0 {
		return core.Utxo{}, fmt.Errorf("%w: %s at %s", core.ErrMissingExpectedUtxo, identity.RefUnit(), scriptAddress)
	}

	return utxos[0], nil
}

type planContext struct {
	req           core.Request
	identity      core.AssetIdentity
	witness       *core.ScriptWitness
	scriptAddress string
	changeAddress string
	ownerKeyHash  []byte
	walletUtxos   []core.Utxo
	collateral    core.Utxo
	refUtxo       core.Utxo
}

func buildPlan(pc planContext) (*core.TransactionPlan, error) {
	if len(pc.walletUtxos) == 0 {
		return nil, fmt.Errorf("%w: no spendable wallet utxo", core.ErrPlanConstruction)
	}

	redeemer, err := RedeemerFor(pc.req.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPlanConstruction, err)
	}

	id := pc.identity
	b := NewPlanBuilder(pc.req.Action).AddInput(firstInput(pc))

	switch {
	case pc.req.Action == core.ActionMint:
		b.SelectFrom(pc.walletUtxos).
			Mint(1, id.PolicyID, id.RefTokenName, redeemer, pc.witness).
			Mint(1, id.PolicyID, id.UserTokenName, redeemer, pc.witness).
			AddOutput(referenceOutput(pc))
	case pc.req.Action == core.ActionEdit:
		b.SpendScript(pc.refUtxo, id.PolicyID, redeemer, pc.witness).
			SelectFrom(pc.walletUtxos).
			AddOutput(referenceOutput(pc))
	case pc.req.RequiresOwnerKey:
		b.SpendScript(pc.refUtxo, id.PolicyID, redeemer, pc.witness).
			SelectFrom(pc.walletUtxos).
			Mint(-1, id.PolicyID, id.RefTokenName, redeemer, pc.witness).
			Mint(-1, id.PolicyID, id.UserTokenName, redeemer, pc.witness)
	default:
		b.SelectFrom(pc.walletUtxos).
			Mint(-1, id.PolicyID, id.Name, redeemer, pc.witness)
	}

	if pc.ownerKeyHash != nil {
		b.RequiredSigner(pc.ownerKeyHash)
	}

	return b.Collateral(pc.collateral).
		ChangeAddress(pc.changeAddress).
		Network(pc.req.Network).
		Build()
}

// firstInput prefers the wallet utxo holding the burned user token so the burn carries it without selection
func firstInput(pc planContext) core.Utxo {
	var unit string

	switch {
	case pc.req.Action != core.ActionBurn:
		return pc.walletUtxos[0]
	case pc.req.RequiresOwnerKey:
		unit = pc.identity.UserUnit()
	default:
		unit = pc.identity.PlainUnit()
	}

	for _, x := range pc.walletUtxos {
		if x.HasUnit(unit) {
			return x
		}
	}

	return pc.walletUtxos[0]
}

func referenceOutput(pc planContext) core.PlanOutput {
	metadata := MetadataWithDefaults(pc.req.Action, pc.req.TokenName, pc.req.Metadata)

	return core.PlanOutput{
		Address: pc.scriptAddress,
		Assets: []core.Asset{
			{PolicyID: pc.identity.PolicyID, Name: pc.identity.RefTokenName, Quantity: 1},
		},
		InlineDatum: NewCip68Datum(metadata),
	}
}

func excludeUtxo(utxos []core.Utxo, excluded core.Utxo) []core.Utxo {
	result := make([]core.Utxo, 0, len(utxos))

	for _, x := range utxos {
		if x.TxHash != excluded.TxHash || x.OutputIndex != excluded.OutputIndex {
			result = append(result, x)
		}
	}

	return result
}
