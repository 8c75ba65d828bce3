package testutil

import "github.com/vedant-dewangan/RegexFlow/internal/model"

// Default identities used by fixtures.
const (
	MakerID   int64 = 10
	CheckerID int64 = 20
	UserID    int64 = 42
)

// TemplateBuilder builds templates for tests.
type TemplateBuilder struct {
	tmpl model.Template
}

// NewTemplate starts a DEBIT/UPI draft for sender authored by MakerID.
func NewTemplate(sender, pattern string) *TemplateBuilder {
	return &TemplateBuilder{tmpl: model.Template{
		SenderHeader:    sender,
		Pattern:         pattern,
		SmsType:         model.SmsTypeDebit,
		TransactionType: model.TxnUPIDebit,
		PaymentType:     model.PaymentUPI,
		Status:          model.StatusDraft,
		BankID:          1,
		CreatedBy:       MakerID,
	}}
}

// WithStatus sets the lifecycle state.
func (b *TemplateBuilder) WithStatus(status model.TemplateStatus) *TemplateBuilder {
	b.tmpl.Status = status
	return b
}

// Pending marks the template as submitted for review.
func (b *TemplateBuilder) Pending() *TemplateBuilder {
	return b.WithStatus(model.StatusPending)
}

// Verified marks the template as approved.
func (b *TemplateBuilder) Verified() *TemplateBuilder {
	return b.WithStatus(model.StatusVerified)
}

// WithSmsType sets the direction tag.
func (b *TemplateBuilder) WithSmsType(t model.SmsType) *TemplateBuilder {
	b.tmpl.SmsType = t
	return b
}

// WithCreator sets the authoring maker.
func (b *TemplateBuilder) WithCreator(id int64) *TemplateBuilder {
	b.tmpl.CreatedBy = id
	return b
}

// WithSample sets the sample message.
func (b *TemplateBuilder) WithSample(sample string) *TemplateBuilder {
	b.tmpl.SampleRawMsg = sample
	return b
}

// Build returns a copy of the template.
func (b *TemplateBuilder) Build() *model.Template {
	tmpl := b.tmpl
	return &tmpl
}
