package lifecycle

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle/core"
)

type planStage int

const (
	stageInputs planStage = iota
	stageMints
	stageOutputs
	stageSettings
	stageBuilt
)

func (s planStage) String() string {
	return [...]string{"inputs", "mints", "outputs", "settings", "built"}[s]
}

// PlanBuilder assembles a transaction plan in a fixed order:
// inputs, then mints, then outputs, then signer/collateral/change/network.
// Going back to an earlier stage is an error. The first error sticks and is returned by Build.
type PlanBuilder struct {
	plan       *core.TransactionPlan
	stage      planStage
	err        error
	policyTags map[string]uint
}

func NewPlanBuilder(action core.Action) *PlanBuilder {
	return &PlanBuilder{
		plan:       &core.TransactionPlan{Action: action},
		policyTags: map[string]uint{},
	}
}

// AddInput adds a regular wallet input
func (b *PlanBuilder) AddInput(utxo core.Utxo) *PlanBuilder {
	if !b.enter(stageInputs) {
		return b
	}

	b.plan.Inputs = append(b.plan.Inputs, core.PlanInput{Utxo: utxo})

	return b
}

// SpendScript adds a script locked input together with its inline datum marker, redeemer and witness
func (b *PlanBuilder) SpendScript(
	utxo core.Utxo, policyID []byte, redeemer core.Redeemer, witness *core.ScriptWitness,
) *PlanBuilder {
	if !b.enter(stageInputs) || !b.checkWitness(policyID, redeemer, witness) {
		return b
	}

	b.plan.Inputs = append(b.plan.Inputs, core.PlanInput{
		Utxo: utxo,
		Script: &core.ScriptSpend{
			InlineDatumPresent: true,
			Redeemer:           redeemer,
			Witness:            witness,
		},
	})

	return b
}

// SelectFrom sets the wallet utxos the balancer may add to cover fees and change
func (b *PlanBuilder) SelectFrom(utxos []core.Utxo) *PlanBuilder {
	if !b.enter(stageInputs) {
		return b
	}

	b.plan.SelectFrom = append(b.plan.SelectFrom, utxos...)

	return b
}

// Mint adds a mint (positive quantity) or burn (negative quantity) directive with its own witness and redeemer
func (b *PlanBuilder) Mint(
	quantity int64, policyID []byte, assetName []byte, redeemer core.Redeemer, witness *core.ScriptWitness,
) *PlanBuilder {
	if !b.enter(stageMints) {
		return b
	}

	if quantity == 0 {
		return b.fail(fmt.Errorf("zero quantity for %s", core.Unit(policyID, assetName)))
	}

	if !b.checkWitness(policyID, redeemer, witness) {
		return b
	}

	b.plan.Mints = append(b.plan.Mints, core.MintDirective{
		Quantity:  quantity,
		PolicyID:  policyID,
		AssetName: assetName,
		Witness:   witness,
		Redeemer:  redeemer,
	})

	return b
}

// AddOutput adds an output. An output with an inline datum must hold exactly one reference token.
func (b *PlanBuilder) AddOutput(output core.PlanOutput) *PlanBuilder {
	if !b.enter(stageOutputs) {
		return b
	}

	if output.Address == "" {
		return b.fail(errors.New("output without address"))
	}

	if output.InlineDatum != nil {
		var refUnits uint64

		for _, x := range output.Assets {
			if IsReferenceTokenName(x.Name) {
				refUnits += x.Quantity
			}
		}

		if refUnits != 1 {
			return b.fail(fmt.Errorf("datum output must hold exactly one reference token, got %d", refUnits))
		}
	}

	b.plan.Outputs = append(b.plan.Outputs, output)

	return b
}

func (b *PlanBuilder) RequiredSigner(keyHash []byte) *PlanBuilder {
	if !b.enter(stageSettings) {
		return b
	}

	if len(keyHash) == 0 {
		return b.fail(errors.New("empty required signer"))
	}

	b.plan.RequiredSigners = append(b.plan.RequiredSigners, keyHash)

	return b
}

func (b *PlanBuilder) Collateral(utxo core.Utxo) *PlanBuilder {
	if !b.enter(stageSettings) {
		return b
	}

	b.plan.Collateral = &utxo

	return b
}

func (b *PlanBuilder) ChangeAddress(address string) *PlanBuilder {
	if !b.enter(stageSettings) {
		return b
	}

	b.plan.ChangeAddress = address

	return b
}

func (b *PlanBuilder) Network(network core.Network) *PlanBuilder {
	if !b.enter(stageSettings) {
		return b
	}

	b.plan.Network = network

	return b
}

// Build validates and returns the plan. The builder can not be used afterwards.
func (b *PlanBuilder) Build() (*core.TransactionPlan, error) {
	if b.stage == stageBuilt {
		b.fail(errors.New("plan already built"))
	}

	if b.err != nil {
		return nil, b.err
	}

	b.stage = stageBuilt

	if err := b.validate(); err != nil {
		b.err = fmt.Errorf("%w: %w", core.ErrPlanConstruction, err)

		return nil, b.err
	}

	return b.plan, nil
}

func (b *PlanBuilder) validate() error {
	plan := b.plan

	hasRegularInput := false
	refs := map[string]bool{}

	for _, x := range plan.Inputs {
		if !x.IsScript() {
			hasRegularInput = true
		}

		refs[x.Utxo.Ref()] = true
	}

	if !hasRegularInput {
		return errors.New("no regular wallet input")
	}

	if plan.ChangeAddress == "" {
		return errors.New("change address not set")
	}

	if !plan.Network.IsValid() {
		return fmt.Errorf("invalid network: %s", plan.Network)
	}

	if len(plan.Witnesses()) > 0 {
		if plan.Collateral == nil {
			return errors.New("collateral not set for a script transaction")
		}

		if refs[plan.Collateral.Ref()] {
			return fmt.Errorf("collateral %s is also an input", plan.Collateral.Ref())
		}
	}

	datumOutputs := 0

	for _, x := range plan.Outputs {
		if x.InlineDatum != nil {
			datumOutputs++
		}
	}

	switch plan.Action {
	case core.ActionMint, core.ActionEdit:
		if datumOutputs != 1 {
			return fmt.Errorf("%s must create exactly one reference token output, got %d", plan.Action, datumOutputs)
		}
	case core.ActionBurn:
		if datumOutputs != 0 {
			return errors.New("burn must not recreate the reference token output")
		}
	}

	return nil
}

func (b *PlanBuilder) enter(stage planStage) bool {
	if b.err != nil {
		return false
	}

	if stage < b.stage {
		b.fail(fmt.Errorf("can not add %s after %s", stage, b.stage))

		return false
	}

	b.stage = stage

	return true
}

// checkWitness ensures every directive under a policy uses the same redeemer tag
func (b *PlanBuilder) checkWitness(policyID []byte, redeemer core.Redeemer, witness *core.ScriptWitness) bool {
	if witness == nil {
		b.fail(errors.New("missing script witness"))

		return false
	}

	key := hex.EncodeToString(policyID)

	if tag, exists := b.policyTags[key]; exists && tag != redeemer.Tag {
		b.fail(fmt.Errorf("mixed redeemer tags %d and %d for policy %s", tag, redeemer.Tag, key))

		return false
	}

	b.policyTags[key] = redeemer.Tag

	return true
}

func (b *PlanBuilder) fail(err error) *PlanBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %w", core.ErrPlanConstruction, err)
	}

	return b
}
