package webhook

// Typed shapes of the most common subjects. Fields the platform adds later
// are ignored on decode; use the raw Subject for anything not covered here.

// Money is an amount in a currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Username is the game account a purchase was made for.
type Username struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Customer describes the buyer.
type Customer struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	IP               string   `json:"ip"`
	Username         Username `json:"username"`
	MarketingConsent bool     `json:"marketing_consent"`
	Country          string   `json:"country"`
	PostalCode       string   `json:"postal_code"`
}

// ProductVariable is a creator-defined variable attached to a product line.
type ProductVariable struct {
	Identifier string `json:"identifier"`
	Option     string `json:"option"`
}

// Product is a purchased line item.
type Product struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	BasePrice Money             `json:"base_price"`
	PaidPrice Money             `json:"paid_price"`
	Variables []ProductVariable `json:"variables"`
	ExpiresAt *string           `json:"expires_at"`
	Custom    any               `json:"custom"`
	Username  Username          `json:"username"`
}

// Status is an id/description pair used for payment and subscription states.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// PaymentMethod names the gateway the buyer paid with.
type PaymentMethod struct {
	Name       string `json:"name"`
	Refundable bool   `json:"refundable"`
}

// Fees breaks down what the platform and gateway took.
type Fees struct {
	Tax     Money `json:"tax"`
	Gateway Money `json:"gateway"`
}

// PaymentSubject is the subject of payment.* events.
type PaymentSubject struct {
	TransactionID             string        `json:"transaction_id"`
	Status                    Status        `json:"status"`
	PaymentSequence           string        `json:"payment_sequence"`
	CreatedAt                 string        `json:"created_at"`
	Price                     Money         `json:"price"`
	PricePaid                 Money         `json:"price_paid"`
	PaymentMethod             PaymentMethod `json:"payment_method"`
	Fees                      Fees          `json:"fees"`
	Customer                  Customer      `json:"customer"`
	Products                  []Product     `json:"products"`
	Coupons                   []any         `json:"coupons"`
	GiftCards                 []any         `json:"gift_cards"`
	RecurringPaymentReference *string       `json:"recurring_payment_reference"`
}

// RecurringPaymentSubject is the subject of recurring-payment.* events.
type RecurringPaymentSubject struct {
	Reference      string          `json:"reference"`
	CreatedAt      string          `json:"created_at"`
	NextPaymentAt  string          `json:"next_payment_at"`
	Status         Status          `json:"status"`
	InitialPayment *PaymentSubject `json:"initial_payment"`
	LastPayment    *PaymentSubject `json:"last_payment"`
	FailCount      int             `json:"fail_count"`
	Price          Money           `json:"price"`
	CancelledAt    *string         `json:"cancelled_at"`
	CancelReason   *string         `json:"cancel_reason"`
}
