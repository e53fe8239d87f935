package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chat-core/domain"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddr string `envconfig:"CHAT_SERVER_ADDR" default:"localhost:5000"`
	Username   string `envconfig:"CHAT_USERNAME" required:"true"`
	Password   string `envconfig:"CHAT_PASSWORD" required:"true"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Login over HTTP to obtain the session token.
	token, err := login(config)
	if err != nil {
		return exitRuntime, err
	}

	// 2. Show the recent history before joining the conversation.
	if err := printHistory(config, token); err != nil {
		log.Warn("Could not load history", "error", err)
	}

	// 3. Open the socket.
	wsURL := url.URL{Scheme: "ws", Host: config.ServerAddr, Path: "/ws",
		RawQuery: "token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", wsURL.Host, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	color.Green.Printf(">>> Connected to %s as %s (Ctrl+C to quit)\n", config.ServerAddr, config.Username)

	// 4. Reception loop.
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				stop()
				return
			}
			var payload domain.Payload
			if err := json.Unmarshal(data, &payload); err != nil {
				continue
			}
			printPayload(payload)
		}
	}()

	// 5. Input loop: every stdin line becomes one chat message.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				stop()
				return
			}
		}
	}()

	<-ctx.Done()
	return exitOK, nil
}

func login(config Config) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": config.Username,
		"password": config.Password,
	})
	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/login", config.ServerAddr),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.AccessToken, nil
}

// printHistory fetches the recent messages and renders them as a table.
func printHistory(config Config, token string) error {
	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("http://%s/api/messages", config.ServerAddr), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("history rejected with status %d", resp.StatusCode)
	}

	var parsed struct {
		Messages []domain.Payload `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return err
	}
	if len(parsed.Messages) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Author", "Message"})
	for _, m := range parsed.Messages {
		table.Append([]string{m.Timestamp, m.Author, m.Message})
	}
	table.Render()
	return nil
}

func printPayload(payload domain.Payload) {
	line := fmt.Sprintf("[%s] %s: %s", payload.Timestamp, payload.Author, payload.Message)
	switch payload.Type {
	case domain.TypeError:
		color.Red.Println(line)
	case domain.TypeCommand:
		color.Magenta.Println(line)
	case domain.TypeUserConnect, domain.TypeUserDisconnect:
		color.Gray.Println(line)
	default:
		if payload.Ephemeral {
			color.Yellow.Println(line)
			return
		}
		color.Cyan.Println(line)
	}
}
