package config

import "time"

type BankIDConfig interface {
	GetBankIDBaseURL() string
	GetBankIDTimeout() time.Duration
}

type BankID struct{}

var _ BankIDConfig = BankID{}

// GetBankIDBaseURL defaults to the BankID test environment; production must
// set BANKID_BASE_URL explicitly.
func (BankID) GetBankIDBaseURL() string {
	return GetEnv("BANKID_BASE_URL", "https://appapi2.test.bankid.com")
}

func (BankID) GetBankIDTimeout() time.Duration {
	return 10 * time.Second
}
