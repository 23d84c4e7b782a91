package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"ai-dashboard-be/internal/dto"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// Interactive terminal client for the chat channel. Lets you exercise the
// backend (mode switches included) without running the dashboard frontend.

var (
	assistantColor = color.New(color.FgGreen)
	toolColor      = color.New(color.FgCyan)
	modeColor      = color.New(color.FgYellow, color.Bold)
	errorColor     = color.New(color.FgRed)
	systemColor    = color.New(color.FgHiBlack)
)

func main() {
	url := flag.String("url", "ws://localhost:3000/ws", "chat websocket endpoint")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *url, err)
	}
	defer conn.Close()

	systemColor.Printf("connected to %s — type a message, Ctrl-D to quit\n", *url)
	systemColor.Println(`try: Presto-Change-O, you're a pet store`)

	done := make(chan struct{})
	go func() {
		defer close(done)
		readLoop(conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		env := dto.NewEnvelope(dto.EnvelopeChat, dto.ChatRequest{Text: text})
		if err := conn.WriteJSON(env); err != nil {
			log.Fatalf("write: %v", err)
		}
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	<-done
}

func readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			systemColor.Printf("\nconnection closed: %v\n", err)
			return
		}

		var env dto.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			errorColor.Printf("\nbad frame: %s\n", data)
			continue
		}

		switch env.Type {
		case dto.EnvelopeChatStart:
			fmt.Println()

		case dto.EnvelopeChatChunk:
			var chunk dto.ChatChunkPayload
			json.Unmarshal(env.Payload, &chunk)
			if chunk.Text != "" {
				assistantColor.Print(chunk.Text)
			}
			if chunk.Done {
				fmt.Println()
			}

		case dto.EnvelopeToolResult:
			var tr dto.ToolResultPayload
			json.Unmarshal(env.Payload, &tr)
			pretty, _ := json.MarshalIndent(tr.Result, "", "  ")
			toolColor.Printf("\n[%s]\n%s\n", tr.Tool, pretty)

		case dto.EnvelopeModeGenerating:
			var gen dto.ModeGeneratingPayload
			json.Unmarshal(env.Payload, &gen)
			if gen.Industry != "" {
				modeColor.Printf("\n… generating %s mode\n", gen.Industry)
			} else {
				modeColor.Println("\n… checking for a mode switch")
			}

		case dto.EnvelopeModeGeneratingCancel:
			systemColor.Println("(no mode switch)")

		case dto.EnvelopeModeSwitch:
			var sw dto.ModeSwitchPayload
			json.Unmarshal(env.Payload, &sw)
			modeColor.Printf("\n★ switched to %s (%s)\n", sw.Mode.Name, sw.Mode.CompanyName)

		case dto.EnvelopeChatError, dto.EnvelopeError:
			var e dto.ChatErrorPayload
			json.Unmarshal(env.Payload, &e)
			errorColor.Printf("\nerror: %s\n", e.Error)

		default:
			systemColor.Printf("\n[%s] %s\n", env.Type, env.Payload)
		}
	}
}
