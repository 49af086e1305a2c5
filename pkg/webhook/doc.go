// Package webhook receives Tebex webhooks.
//
// A Gateway runs each request through a fixed pipeline:
//
//  1. origin check: origin, signature and body must all be present and the
//     origin must be allow-listed (500 / 401)
//  2. signature check: hex(HMAC-SHA256(secret, hex(SHA256(body)))) compared
//     in constant time with the signature header (401)
//  3. classification: the body must be a JSON envelope with a type (400)
//  4. a validation.webhook probe is answered with {"id": <id>}; any other
//     event is passed to the subscribers of its kind and answered "200 OK"
//
// The package has no HTTP server of its own. Mount it on any router with
// the webhookhttp subpackage, or call Gateway.Process directly from a
// serverless handler:
//
//	gw, err := webhook.New(webhook.Config{Secret: []byte(os.Getenv("TEBEX_WEBHOOK_SECRET"))})
//	if err != nil {
//		return err
//	}
//	gw.Subscribe(webhook.KindPaymentCompleted, func(subject webhook.Subject, raw []byte) error {
//		var p webhook.PaymentSubject
//		if err := json.Unmarshal(subject, &p); err != nil {
//			return err
//		}
//		return fulfil(p)
//	})
//	res := gw.Process(webhook.Request{Origin: ip, Signature: sig, Body: body})
//
// Subscribers run synchronously on the request goroutine. Their errors and
// panics are isolated per callback and reported to the Observer; they never
// change the response.
package webhook
