package eth

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/params"
)

var (
	ThousandEther = Ether(1000)
	HundredEther  = Ether(100)
	OneEther      = Ether(1)
	OneGWei       = GWei(1)
	OneWei        = WeiU64(1)
	ZeroWei       = WeiU64(0)
)

var (
	weiPerGWei = uint256.NewInt(params.GWei)
	weiPerEth  = uint256.NewInt(params.Ether)
)

// ETH is a typed amount of (test-)currency, expressed in number of wei.
// Methods take and return flat values rather than pointers,
// so amounts cannot be mutated through shared references.
type ETH uint256.Int

// String prints the amount with a unit suffix.
// Amounts divisible by 1 ether print in ether, amounts divisible
// by 1 gwei print in gwei, everything else prints in wei.
// No precision is lost in any of the three forms.
func (e ETH) String() string {
	vWei := (*uint256.Int)(&e)
	if vWei.Sign() == 0 {
		return "0 wei"
	}
	var vGWei uint256.Int
	var remainder uint256.Int
	vGWei.DivMod(vWei, weiPerGWei, &remainder)
	if remainder.Sign() == 0 {
		var vEth uint256.Int
		vEth.DivMod(vWei, weiPerEth, &remainder)
		if remainder.Sign() == 0 {
			return vEth.PrettyDec(',') + " ether"
		}
		return vGWei.PrettyDec(',') + " gwei"
	}
	return vWei.PrettyDec(',') + " wei"
}

// Decimal returns the amount, in wei, in decimal form.
func (e ETH) Decimal() string {
	return (*uint256.Int)(&e).String()
}

// WeiFloat returns the amount as floating point number, in wei.
// Warning: precision loss, for metrics and display only.
func (e ETH) WeiFloat() float64 {
	return (*uint256.Int)(&e).Float64()
}

// ToBig converts to *big.Int, in wei.
func (e ETH) ToBig() *big.Int {
	return (*uint256.Int)(&e).ToBig()
}

// Add adds v and returns the result. Add panics on overflow.
func (e ETH) Add(v ETH) (out ETH) {
	_, overflow := (*uint256.Int)(&out).AddOverflow((*uint256.Int)(&e), (*uint256.Int)(&v))
	if overflow {
		panic(fmt.Errorf("add overflow: %s + %s", e, v))
	}
	return
}

// Sub subtracts v and returns the result. Sub panics on underflow.
func (e ETH) Sub(v ETH) (out ETH) {
	_, underflow := (*uint256.Int)(&out).SubOverflow((*uint256.Int)(&e), (*uint256.Int)(&v))
	if underflow {
		panic(fmt.Errorf("sub underflow: %s - %s", e, v))
	}
	return
}

// Lt returns if this is less than the given ETH value.
func (e ETH) Lt(v ETH) bool {
	return (*uint256.Int)(&e).Lt((*uint256.Int)(&v))
}

// Gt returns if this is greater than the given ETH value.
func (e ETH) Gt(v ETH) bool {
	return (*uint256.Int)(&e).Gt((*uint256.Int)(&v))
}

// IsZero returns if this equals 0.
func (e ETH) IsZero() bool {
	return (*uint256.Int)(&e).IsZero()
}

// UnmarshalText supports hexadecimal (0x prefix) and decimal amounts of wei.
func (e *ETH) UnmarshalText(data []byte) error {
	return (*uint256.Int)(e).UnmarshalText(data)
}

// UnmarshalJSON accepts quoted hexadecimal or decimal strings, and bare decimals.
func (e *ETH) UnmarshalJSON(data []byte) error {
	return (*uint256.Int)(e).UnmarshalJSON(data)
}

// MarshalText marshals as a plain decimal number of wei.
func (e ETH) MarshalText() ([]byte, error) {
	return []byte((*uint256.Int)(&e).Dec()), nil
}

// WeiBig turns the given big.Int amount of wei into ETH-typed wei.
// This panics if the amount is negative or does not fit in 256 bits.
func WeiBig(wei *big.Int) (out ETH) {
	if wei == nil {
		panic("nil *big.Int input to ETH constructor")
	}
	if wei.Sign() < 0 {
		panic("negative amounts are not supported")
	}
	if overflow := (*uint256.Int)(&out).SetFromBig(wei); overflow {
		panic("*big.Int input does not fit in uint256")
	}
	return
}

// WeiU64 turns the given uint64 amount of wei into ETH-typed wei.
func WeiU64(wei uint64) (out ETH) {
	(*uint256.Int)(&out).SetUint64(wei)
	return
}

// GWei turns the given amount of gwei into ETH-typed wei.
func GWei(gwei uint64) (out ETH) {
	var x uint256.Int
	x.SetUint64(gwei)
	x.Mul(&x, weiPerGWei)
	return ETH(x)
}

// Ether turns the given amount of ether into ETH-typed wei.
func Ether(ether uint64) ETH {
	var x uint256.Int
	x.SetUint64(ether)
	x.Mul(&x, weiPerEth)
	return ETH(x)
}
