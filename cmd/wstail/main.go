// Command main tails the realtime event stream of a running Bulag server.
// It logs in, mints a single-use WebSocket ticket, and prints every event
// frame it receives until interrupted.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8480", "Server host:port")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	token := flag.String("token", "", "JWT to use instead of logging in")
	flag.Parse()

	jwt := *token
	if jwt == "" {
		if *email == "" || *password == "" {
			log.Fatal("either -token or -email and -password are required")
		}
		var err error
		jwt, err = login(*addr, *email, *password)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	ticket, err := issueTicket(*addr, jwt)
	if err != nil {
		log.Fatalf("Ticket request failed: %v", err)
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/api/ws/", RawQuery: "ticket=" + url.QueryEscape(ticket)}
	log.Printf("connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			fmt.Printf("%s %s\n", time.Now().Format(time.RFC3339), message)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupt, closing connection")
		err := conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Printf("close: %v", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func login(addr, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	resp, err := http.Post("http://"+addr+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return body.Token, nil
}

func issueTicket(addr, jwt string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/api/ws/ticket", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+jwt)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Ticket == "" {
		return "", fmt.Errorf("no ticket in response")
	}
	return body.Ticket, nil
}
