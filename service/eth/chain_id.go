package eth

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// ChainID identifies an execution-layer chain.
// Chain IDs can exceed 64 bits, so this wraps a uint256.
type ChainID uint256.Int

func ChainIDFromUInt64(i uint64) ChainID {
	return ChainID(*uint256.NewInt(i))
}

// ChainIDFromBig converts the given big.Int into a ChainID.
// This panics if the value is negative or does not fit in 256 bits.
func ChainIDFromBig(chainID *big.Int) ChainID {
	var out uint256.Int
	if overflow := out.SetFromBig(chainID); overflow {
		panic(fmt.Errorf("chain ID %s does not fit in uint256", chainID))
	}
	return ChainID(out)
}

func (id ChainID) String() string {
	return (*uint256.Int)(&id).Dec()
}

func (id ChainID) ToBig() *big.Int {
	return (*uint256.Int)(&id).ToBig()
}

func (id ChainID) Cmp(other ChainID) int {
	return (*uint256.Int)(&id).Cmp((*uint256.Int)(&other))
}

func (id ChainID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ChainID) UnmarshalText(data []byte) error {
	var x uint256.Int
	if err := x.SetFromDecimal(string(data)); err != nil {
		return fmt.Errorf("invalid chain ID %q: %w", string(data), err)
	}
	*id = ChainID(x)
	return nil
}
