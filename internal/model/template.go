// Package model defines the core data structures for the regexflow application.
package model

import (
	"time"
)

// TemplateStatus is the lifecycle state of a template.
type TemplateStatus string

// Template lifecycle states.
const (
	StatusDraft      TemplateStatus = "DRAFT"
	StatusPending    TemplateStatus = "PENDING"
	StatusVerified   TemplateStatus = "VERIFIED"
	StatusDeprecated TemplateStatus = "DEPRECATED"
)

// IsValid reports whether s is a known template status.
func (s TemplateStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusVerified, StatusDeprecated:
		return true
	}
	return false
}

// SmsType is the message direction a template is written for.
type SmsType string

// SMS types.
const (
	SmsTypeDebit   SmsType = "DEBIT"
	SmsTypeCredit  SmsType = "CREDIT"
	SmsTypeLoan    SmsType = "LOAN"
	SmsTypeService SmsType = "SERVICE"
)

// PaymentType is the payment channel a template describes.
type PaymentType string

// Payment channels.
const (
	PaymentUPI        PaymentType = "UPI"
	PaymentNetBanking PaymentType = "NET_BANKING"
	PaymentCreditCard PaymentType = "CREDIT_CARD"
	PaymentDebitCard  PaymentType = "DEBIT_CARD"
	PaymentCash       PaymentType = "CASH"
	PaymentCheque     PaymentType = "CHEQUE"
)

// TransactionType is the transaction category a template describes.
type TransactionType string

// Transaction categories.
const (
	TxnUPICredit            TransactionType = "UPI_CREDIT"
	TxnUPIDebit             TransactionType = "UPI_DEBIT"
	TxnATMWithdrawal        TransactionType = "ATM_WITHDRAWAL"
	TxnCashDeposit          TransactionType = "CASH_DEPOSIT"
	TxnBill                 TransactionType = "BILL"
	TxnSalary               TransactionType = "SALARY"
	TxnEMIDebit             TransactionType = "EMI_DEBIT"
	TxnLoanCredit           TransactionType = "LOAN_CREDIT"
	TxnCreditCardPayment    TransactionType = "CREDIT_CARD_PAYMENT"
	TxnDebitCardSpend       TransactionType = "DEBIT_CARD_SPEND"
	TxnMutualFundPurchase   TransactionType = "MUTUAL_FUND_PURCHASE"
	TxnFixedDepositMaturity TransactionType = "FIXED_DEPOSIT_MATURITY"
)

// SmsTypes lists every valid SMS type.
var SmsTypes = []SmsType{SmsTypeDebit, SmsTypeCredit, SmsTypeLoan, SmsTypeService}

// PaymentTypes lists every valid payment channel.
var PaymentTypes = []PaymentType{
	PaymentUPI, PaymentNetBanking, PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentCheque,
}

// TransactionTypes lists every valid transaction category.
var TransactionTypes = []TransactionType{
	TxnUPICredit, TxnUPIDebit, TxnATMWithdrawal, TxnCashDeposit, TxnBill, TxnSalary,
	TxnEMIDebit, TxnLoanCredit, TxnCreditCardPayment, TxnDebitCardSpend,
	TxnMutualFundPurchase, TxnFixedDepositMaturity,
}

// IsValid reports whether t is a known SMS type.
func (t SmsType) IsValid() bool {
	for _, v := range SmsTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValid reports whether t is a known payment channel.
func (t PaymentType) IsValid() bool {
	for _, v := range PaymentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValid reports whether t is a known transaction category.
func (t TransactionType) IsValid() bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Template is a regex pattern plus the metadata used to select and govern it.
// The pattern text uses named groups from the field catalog, e.g. (?<amount>...).
type Template struct {
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Audit           *AuditRecord    `json:"audit,omitempty"`
	SenderHeader    string          `json:"sender_header"`
	Pattern         string          `json:"pattern"`
	SampleRawMsg    string          `json:"sample_raw_msg,omitempty"`
	SmsType         SmsType         `json:"sms_type"`
	TransactionType TransactionType `json:"transaction_type"`
	PaymentType     PaymentType     `json:"payment_type"`
	Status          TemplateStatus  `json:"status"`
	ID              int64           `json:"id"`
	BankID          int64           `json:"bank_id"`
	CreatedBy       int64           `json:"created_by"`
}

// SameDefinition reports whether two templates describe the same pattern for the
// same sender, bank and tags. Used to reject duplicate drafts.
func (t *Template) SameDefinition(other *Template) bool {
	return t.SenderHeader == other.SenderHeader &&
		t.Pattern == other.Pattern &&
		t.BankID == other.BankID &&
		t.SmsType == other.SmsType &&
		t.TransactionType == other.TransactionType &&
		t.PaymentType == other.PaymentType
}
