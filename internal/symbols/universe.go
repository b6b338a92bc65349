package symbols

// Universe represents a predefined stock universe
type Universe string

const (
	UniverseNSETop20 Universe = "nse-top20"
	UniverseNSEBank  Universe = "nse-bank"
	UniverseTest     Universe = "test" // Small set for testing
)

// GetUniverse returns the list of symbols for a given universe
func GetUniverse(u Universe) []string {
	var list []string
	switch u {
	case UniverseNSETop20:
		list = NSETop20Symbols
	case UniverseNSEBank:
		list = NSEBankSymbols
	case UniverseTest:
		list = TestSymbols
	default:
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Universes lists the known universe names
func Universes() []Universe {
	return []Universe{UniverseNSETop20, UniverseNSEBank, UniverseTest}
}

// TestSymbols is a small set for quick testing
var TestSymbols = []string{
	"RELIANCE", "TCS", "INFY",
}

// NSETop20Symbols are the largest NSE listings by market capitalisation
var NSETop20Symbols = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK",
	"SBIN", "BHARTIARTL", "ITC", "KOTAKBANK", "LICI",
	"LT", "AXISBANK", "HCLTECH", "ASIANPAINT", "MARUTI",
	"SUNPHARMA", "TITAN", "BAJFINANCE", "ULTRACEMCO", "TATASTEEL",
}

// NSEBankSymbols are the NIFTY Bank constituents
var NSEBankSymbols = []string{
	"HDFCBANK", "ICICIBANK", "SBIN", "KOTAKBANK", "AXISBANK", "INDUSINDBK",
	"BANKBARODA", "PNB", "AUBANK", "FEDERALBNK", "IDFCFIRSTB", "CANBK",
}
