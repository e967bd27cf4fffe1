// Package binance is a typed client for the Binance spot REST API (v3).
//
// Every endpoint is a method on Client returning the decoded payload or a
// *core.ExchangeError. Query parameters are sent in a fixed order and
// undefined ones are left out. Signed endpoints get timestamp, optional
// recvWindow and an HMAC-SHA256 signature appended last.
//
// The package includes:
//   - Protocol: environment addresses, request signing and error decoding
//   - Client: market data, trading, OCO, account and listen key endpoints
//   - UserStream: the user data stream with listen key keepalive
//
// Example usage:
//
//	client, err := binance.New(core.DefaultConfig().WithCredentials(creds))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	book, err := client.OrderBook(ctx, "BTCUSDT", 10)
package binance
