// Package ledger implements patient intake, payment recording and
// balance reconciliation. A Patient row carries the outstanding balance;
// every payment is a Transaction, and installment payments additionally
// write an Installment row pairing the payment with the balance it left
// behind. The three tables move together inside one database
// transaction.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("ledger: not found")

// Service types on a patient record.
const (
	ServiceTypeOneTime     = "One-time"
	ServiceTypeInstallment = "Installment"
)

// Payment types on a transaction. The initial payment taken at intake is
// recorded as "Installment"; every later payment against the balance is
// "installment-pay".
const (
	PaymentTypeOneTime        = "One-time"
	PaymentTypeInstallment    = "Installment"
	PaymentTypeInstallmentPay = "installment-pay"
)

// Patient maps to the patients table.
type Patient struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	PatientName    string          `db:"patient_name" json:"patient_name"`
	PatientAge     *int            `db:"patient_age" json:"patient_age,omitempty"`
	Address        *string         `db:"address" json:"address,omitempty"`
	Gender         *string         `db:"gender" json:"gender,omitempty"`
	Contact        *string         `db:"contact" json:"contact,omitempty"`
	ServiceName    string          `db:"service_name" json:"service_name"`
	SubServiceName *string         `db:"sub_service_name" json:"sub_service_name,omitempty"`
	ServiceType    string          `db:"service_type" json:"service_type"`
	ServicePrice   decimal.Decimal `db:"service_price" json:"service_price"`
	Balance        decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction maps to the transactions table. Patient fields are
// denormalized so the row stays readable after the patient is gone.
type Transaction struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	PatientID      *uuid.UUID      `db:"patient_id" json:"patient_id,omitempty"`
	PatientName    string          `db:"patient_name" json:"patient_name"`
	ServiceName    string          `db:"service_name" json:"service_name"`
	SubServiceName *string         `db:"sub_service_name" json:"sub_service_name,omitempty"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	PaymentType    string          `db:"payment_type" json:"payment_type"`
	Date           time.Time       `db:"date" json:"date"`
	Remarks        *string         `db:"remarks" json:"remarks,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Installment maps to the installments table. TransactionID links it
// 1:1 to the transaction that recorded the payment.
type Installment struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	PatientID     uuid.UUID       `db:"patient_id" json:"patient_id"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	PaymentDate   time.Time       `db:"payment_date" json:"payment_date"`
	TransactionID uuid.UUID       `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// reversesBalance reports whether deleting a transaction of the given
// payment type must credit the amount back onto the patient balance.
// One-time sales never touched a balance, so there is nothing to undo.
func reversesBalance(paymentType string) bool {
	return paymentType == PaymentTypeInstallment || paymentType == PaymentTypeInstallmentPay
}
