package predict

import (
	"github.com/rewired-gh/fraudscope/internal/models"
	"github.com/rewired-gh/fraudscope/internal/page"
)

// Form control names. They match the TransactionQuery wire keys except for
// transaction_type, which is sent as "transaction type".
const (
	FieldTransactionType   = "transaction_type"
	FieldTransactionStatus = "transaction_status"
	FieldAmount            = "amount"
	FieldMerchantCategory  = "merchant_category"
	FieldSenderAge         = "sender_age"
	FieldReceiverAge       = "receiver_age"
	FieldSenderState       = "sender_state"
	FieldSenderBank        = "sender_bank"
	FieldReceiverBank      = "receiver_bank"
	FieldDeviceType        = "device_type"
	FieldNetworkType       = "network_type"
	FieldHourOfDay         = "hour_of_day"
	FieldDayOfWeek         = "day_of_week"
	FieldIsWeekend         = "is_weekend"
)

// FieldNames returns every control name the prediction form must declare, in layout order
func FieldNames() []string {
	return []string{
		FieldTransactionType,
		FieldTransactionStatus,
		FieldAmount,
		FieldMerchantCategory,
		FieldSenderAge,
		FieldReceiverAge,
		FieldSenderState,
		FieldSenderBank,
		FieldReceiverBank,
		FieldDeviceType,
		FieldNetworkType,
		FieldHourOfDay,
		FieldDayOfWeek,
		FieldIsWeekend,
	}
}

// ExtractQuery builds the scoring record from the current form values.
// Nothing is validated: blank text stays blank, numbers are coerced as-is, and
// is_weekend is 1 only when the weekend checkbox contributes a value.
func ExtractQuery(form *page.Form) models.TransactionQuery {
	text := func(name string) string {
		v, _ := form.Get(name)
		return v
	}
	number := func(name string) models.Number {
		return models.ParseNumber(text(name))
	}

	q := models.TransactionQuery{
		TransactionType:   text(FieldTransactionType),
		TransactionStatus: text(FieldTransactionStatus),
		Amount:            number(FieldAmount),
		MerchantCategory:  text(FieldMerchantCategory),
		SenderAge:         number(FieldSenderAge),
		ReceiverAge:       number(FieldReceiverAge),
		SenderState:       text(FieldSenderState),
		SenderBank:        text(FieldSenderBank),
		ReceiverBank:      text(FieldReceiverBank),
		DeviceType:        text(FieldDeviceType),
		NetworkType:       text(FieldNetworkType),
		HourOfDay:         number(FieldHourOfDay),
		DayOfWeek:         text(FieldDayOfWeek),
	}
	if _, checked := form.Get(FieldIsWeekend); checked {
		q.IsWeekend = 1
	}
	return q
}
