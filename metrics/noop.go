package metrics

import (
	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/eth"
)

type NoopMetrics struct{}

func (n NoopMetrics) RecordInfo(version string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordFundAction(faucet ftypes.FaucetID, chainID eth.ChainID, amount eth.ETH) (onDone func(err error)) {
	return func(err error) {}
}

func (n NoopMetrics) RecordDeniedRequest(faucet ftypes.FaucetID, reason string) {}

var _ Metricer = NoopMetrics{}
