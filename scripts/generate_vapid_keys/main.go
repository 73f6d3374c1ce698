package main

import (
	"fmt"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Prints a fresh VAPID key pair in .env format. Paste the output into the
// server's .env, clients pick up the public key from /api/push/public-key.
func main() {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalln("fail to generate vapid keys:", err)
	}
	fmt.Printf("VAPID_PUBLIC=%s\n", publicKey)
	fmt.Printf("VAPID_PRIVATE=%s\n", privateKey)
}
