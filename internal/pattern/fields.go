package pattern

import "github.com/vedant-dewangan/RegexFlow/internal/model"

// CatalogVersion identifies the field catalog. Bump it when fields are added or renamed.
const CatalogVersion = 1

// FieldName is a named capture group recognized by the extractor.
type FieldName string

// Section groups related fields of the catalog.
type Section string

// Catalog sections.
const (
	SectionTransaction  Section = "transaction"
	SectionParties      Section = "parties"
	SectionGeneral      Section = "general"
	SectionBiller       Section = "biller"
	SectionFixedDeposit Section = "fixed_deposit"
	SectionMutualFund   Section = "mutual_fund"
	SectionOrder        Section = "order"
)

// Catalog field names.
const (
	FieldBankAcID        FieldName = "bankAcId"
	FieldAmount          FieldName = "amount"
	FieldAmountNegative  FieldName = "amountNegative"
	FieldDate            FieldName = "date"
	FieldMerchant        FieldName = "merchant"
	FieldTxnNote         FieldName = "txnNote"
	FieldBalance         FieldName = "balance"
	FieldBalanceNegative FieldName = "balanceNegative"

	FieldSenderName   FieldName = "senderName"
	FieldSBank        FieldName = "sBank"
	FieldSAcType      FieldName = "sAcType"
	FieldSAcID        FieldName = "sAcId"
	FieldReceiverName FieldName = "receiverName"
	FieldRBank        FieldName = "rBank"

	FieldAvailLimit  FieldName = "availLimit"
	FieldCreditLimit FieldName = "creditLimit"
	FieldPaymentType FieldName = "paymentType"
	FieldCity        FieldName = "city"

	FieldBillerAcID FieldName = "billerAcId"
	FieldBillID     FieldName = "billId"
	FieldBillDate   FieldName = "billDate"
	FieldBillPeriod FieldName = "billPeriod"
	FieldDueDate    FieldName = "dueDate"
	FieldMinAmtDue  FieldName = "minAmtDue"
	FieldTotAmtDue  FieldName = "totAmtDue"

	FieldPrincipalAmount FieldName = "principalAmount"
	FieldFrequency       FieldName = "frequency"
	FieldMaturityDate    FieldName = "maturityDate"
	FieldMaturityAmount  FieldName = "maturityAmount"
	FieldRateOfInterest  FieldName = "rateOfInterest"

	FieldMfNav       FieldName = "mfNav"
	FieldMfUnits     FieldName = "mfUnits"
	FieldMfArn       FieldName = "mfArn"
	FieldMfBalUnits  FieldName = "mfBalUnits"
	FieldMfSchemeBal FieldName = "mfSchemeBal"

	FieldAmountPaid     FieldName = "amountPaid"
	FieldOfferAmount    FieldName = "offerAmount"
	FieldMinPurchaseAmt FieldName = "minPurchaseAmt"
)

// FieldDescriptor describes one catalog entry.
type FieldDescriptor struct {
	Name        FieldName
	Section     Section
	Description string
}

// Catalog is the closed, ordered set of fields every extraction reports on.
var Catalog = []FieldDescriptor{
	{FieldBankAcID, SectionTransaction, "Account the transaction posted to"},
	{FieldAmount, SectionTransaction, "Transaction amount"},
	{FieldAmountNegative, SectionTransaction, "Negative sign or marker on the amount"},
	{FieldDate, SectionTransaction, "Transaction date"},
	{FieldMerchant, SectionTransaction, "Merchant or payee"},
	{FieldTxnNote, SectionTransaction, "Free-form transaction note or reference"},
	{FieldBalance, SectionTransaction, "Available balance after the transaction"},
	{FieldBalanceNegative, SectionTransaction, "Negative sign or marker on the balance"},

	{FieldSenderName, SectionParties, "Sender name"},
	{FieldSBank, SectionParties, "Sender bank"},
	{FieldSAcType, SectionParties, "Sender account type"},
	{FieldSAcID, SectionParties, "Sender account"},
	{FieldReceiverName, SectionParties, "Receiver name"},
	{FieldRBank, SectionParties, "Receiver bank"},

	{FieldAvailLimit, SectionGeneral, "Available credit limit"},
	{FieldCreditLimit, SectionGeneral, "Total credit limit"},
	{FieldPaymentType, SectionGeneral, "Payment channel as written in the message"},
	{FieldCity, SectionGeneral, "City of the transaction"},

	{FieldBillerAcID, SectionBiller, "Biller account"},
	{FieldBillID, SectionBiller, "Bill number"},
	{FieldBillDate, SectionBiller, "Bill date"},
	{FieldBillPeriod, SectionBiller, "Billing period"},
	{FieldDueDate, SectionBiller, "Payment due date"},
	{FieldMinAmtDue, SectionBiller, "Minimum amount due"},
	{FieldTotAmtDue, SectionBiller, "Total amount due"},

	{FieldPrincipalAmount, SectionFixedDeposit, "Deposit principal"},
	{FieldFrequency, SectionFixedDeposit, "Interest payout frequency"},
	{FieldMaturityDate, SectionFixedDeposit, "Maturity date"},
	{FieldMaturityAmount, SectionFixedDeposit, "Maturity amount"},
	{FieldRateOfInterest, SectionFixedDeposit, "Rate of interest"},

	{FieldMfNav, SectionMutualFund, "Net asset value"},
	{FieldMfUnits, SectionMutualFund, "Units allotted"},
	{FieldMfArn, SectionMutualFund, "Application reference number"},
	{FieldMfBalUnits, SectionMutualFund, "Unit balance"},
	{FieldMfSchemeBal, SectionMutualFund, "Scheme balance"},

	{FieldAmountPaid, SectionOrder, "Amount paid for the order"},
	{FieldOfferAmount, SectionOrder, "Offer or discount amount"},
	{FieldMinPurchaseAmt, SectionOrder, "Minimum purchase amount for the offer"},
}

var catalogIndex = func() map[FieldName]struct{} {
	m := make(map[FieldName]struct{}, len(Catalog))
	for _, f := range Catalog {
		m[f.Name] = struct{}{}
	}
	return m
}()

// InCatalog reports whether name is a catalog field.
func InCatalog(name string) bool {
	_, ok := catalogIndex[FieldName(name)]
	return ok
}

// FieldResult is an extracted value and the capture-group index that produced it.
// An absent field has a nil Value and Index -1.
type FieldResult struct {
	Value *string `json:"value"`
	Index int     `json:"index"`
}

// Absent returns the result for a field that was not extracted.
func Absent() FieldResult {
	return FieldResult{Index: -1}
}

// Present reports whether the field was extracted.
func (f FieldResult) Present() bool {
	return f.Value != nil && f.Index >= 0
}

// String returns the extracted value, or "" when absent.
func (f FieldResult) String() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

// Tags are the semantic tags of the template an outcome was extracted with.
type Tags struct {
	SmsType         model.SmsType
	PaymentType     model.PaymentType
	TransactionType model.TransactionType
}

// TagsOf returns the semantic tags declared on a template.
func TagsOf(t *model.Template) Tags {
	return Tags{SmsType: t.SmsType, PaymentType: t.PaymentType, TransactionType: t.TransactionType}
}

// Outcome holds one FieldResult for every catalog field.
type Outcome struct {
	fields map[FieldName]FieldResult
	Tags   Tags
}

func emptyOutcome(tags Tags) Outcome {
	fields := make(map[FieldName]FieldResult, len(Catalog))
	for _, f := range Catalog {
		fields[f.Name] = Absent()
	}
	return Outcome{fields: fields, Tags: tags}
}

// Field returns the result for name. Names outside the catalog are reported absent.
func (o Outcome) Field(name FieldName) FieldResult {
	if r, ok := o.fields[name]; ok {
		return r
	}
	return Absent()
}

// Fields returns a copy of every catalog field's result.
func (o Outcome) Fields() map[FieldName]FieldResult {
	out := make(map[FieldName]FieldResult, len(o.fields))
	for k, v := range o.fields {
		out[k] = v
	}
	return out
}

// Score is the number of present fields.
func (o Outcome) Score() int {
	n := 0
	for _, r := range o.fields {
		if r.Present() {
			n++
		}
	}
	return n
}

// Values returns the present fields as name to value, for persistence.
func (o Outcome) Values() map[string]string {
	values := make(map[string]string)
	for _, f := range Catalog {
		if r := o.fields[f.Name]; r.Present() {
			values[string(f.Name)] = *r.Value
		}
	}
	return values
}
