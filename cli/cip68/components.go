package clicip68

import (
	"fmt"

	cardanotx "github.com/Ethernal-Tech/cip68-lifecycle/cardano"
	"github.com/Ethernal-Tech/cip68-lifecycle/lifecycle"
	cardanowallet "github.com/Ethernal-Tech/cardano-infrastructure/wallet"
	"github.com/hashicorp/go-hclog"
)

type components struct {
	txProvider cardanowallet.ITxProvider
	provider   *cardanotx.ChainProvider
	wallet     *cardanotx.Wallet
	workflow   *lifecycle.Workflow
}

func newComponents(config *AppConfig, keys *cardanotx.OwnerKeys, logger hclog.Logger) (*components, error) {
	templates, err := loadTemplates(config.Blueprint)
	if err != nil {
		return nil, err
	}

	txProvider, err := config.CardanoChain.CreateTxProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create tx provider: %w", err)
	}

	wallet, err := cardanotx.NewWallet(keys, &config.CardanoChain, txProvider, logger.Named("wallet"))
	if err != nil {
		txProvider.Dispose()

		return nil, err
	}

	balancer, err := cardanotx.NewCliBalancer(&config.CardanoChain, txProvider, nil, logger.Named("balancer"))
	if err != nil {
		txProvider.Dispose()

		return nil, err
	}

	provider := cardanotx.NewChainProvider(txProvider, logger.Named("chain_provider"))

	workflow, err := lifecycle.NewWorkflow(lifecycle.Dependencies{
		Provider:  provider,
		Wallet:    wallet,
		Compiler:  cardanotx.NewScriptCompiler(config.Blueprint.ApplyParamsCommand, nil, logger.Named("compiler")),
		Balancer:  balancer,
		Resolver:  cardanotx.NewScriptResolver(),
		Templates: templates,
		Sleep:     lifecycle.ContextSleep,
		Logger:    logger.Named("lifecycle"),
	})
	if err != nil {
		txProvider.Dispose()

		return nil, err
	}

	return &components{
		txProvider: txProvider,
		provider:   provider,
		wallet:     wallet,
		workflow:   workflow,
	}, nil
}

func (c *components) Dispose() {
	c.txProvider.Dispose()
}

func loadTemplates(config BlueprintConfig) (lifecycle.ScriptTemplates, error) {
	var templates lifecycle.ScriptTemplates

	blueprint, err := cardanotx.LoadBlueprint(config.Path)
	if err != nil {
		return templates, err
	}

	if templates.Mint, err = blueprint.Template(config.MintValidator); err != nil {
		return templates, err
	}

	if templates.Spend, err = blueprint.Template(config.SpendValidator); err != nil {
		return templates, err
	}

	if templates.SimpleBurn, err = blueprint.Template(config.SimpleBurnValidator); err != nil {
		return templates, err
	}

	return templates, nil
}
