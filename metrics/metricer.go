package metrics

import (
	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/eth"
)

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	// RecordFundAction starts timing a funding action; the returned onDone
	// records the outcome once the dispense attempt finished.
	RecordFundAction(faucet ftypes.FaucetID, chainID eth.ChainID, amount eth.ETH) (onDone func(err error))

	// RecordDeniedRequest counts a rejected dispense request, by denial reason.
	RecordDeniedRequest(faucet ftypes.FaucetID, reason string)
}
