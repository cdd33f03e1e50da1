// Package sdk is a Go client for the Lottomatica support assistant HTTP API.
//
// A Client talks to a running support-ai server:
//
//	client := sdk.New("http://localhost:8000")
//	reply, err := client.Chat(ctx, "Come deposito?", "")
//
// Streaming responses are delivered over a channel that closes when the
// server finishes:
//
//	events, err := client.ChatStream(ctx, "Come deposito?", reply.ConversationID)
//	for ev := range events {
//		...
//	}
package sdk
