// Package stream publishes polled quotes to WebSocket clients.
//
// A Hub owns the set of connected clients. Each client may narrow the quotes it
// receives with subscribe/unsubscribe commands; a client without subscriptions
// receives every instrument. Clients that cannot keep up are disconnected so
// the hub never blocks on a slow consumer.
package stream
