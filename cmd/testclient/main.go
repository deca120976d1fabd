package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dasmlab/mozhi/pkg/service"
	"github.com/sirupsen/logrus"
)

var (
	serverAddr = flag.String("addr", "localhost:50051", "gRPC server address")
	sourceLang = flag.String("source", "en", "Source language code (en or ta)")
	targetLang = flag.String("target", "ta", "Target language code (en or ta)")
	textFile   = flag.String("file", "", "Path to text file to translate")
	text       = flag.String("text", "", "Text to translate (if file not provided)")
	chat       = flag.Bool("chat", false, "Interactive chat: read lines from stdin into one session")
	direction  = flag.String("direction", "en-ta", "Chat direction: en-ta, ta-en or auto")
	timeout    = flag.Duration("timeout", 30*time.Second, "Per-request timeout")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to server")
	}
	defer conn.Close()

	client := service.NewClient(conn)

	if *chat {
		runChat(client, logger)
		return
	}

	// Read text to translate
	var textToTranslate string
	if *textFile != "" {
		data, err := os.ReadFile(*textFile)
		if err != nil {
			logger.WithError(err).Fatalf("Failed to read file: %s", *textFile)
		}
		textToTranslate = string(data)
	} else if *text != "" {
		textToTranslate = *text
	} else {
		logger.Fatal("Either -file, -text or -chat must be provided")
	}

	logger.WithFields(logrus.Fields{
		"server":      *serverAddr,
		"source_lang": *sourceLang,
		"target_lang": *targetLang,
		"text_length": len(textToTranslate),
	}).Info("Translating text...")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := client.Translate(ctx, textToTranslate, *sourceLang, *targetLang)
	if err != nil {
		logger.WithError(err).Fatal("Translation failed")
	}
	result := resp.AsMap()

	separator := strings.Repeat("=", 80)
	dashLine := strings.Repeat("-", 80)

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("TRANSLATION RESULT")
	fmt.Println(separator)
	fmt.Printf("\nSource Language: %s\n", *sourceLang)
	fmt.Printf("Target Language: %s\n", *targetLang)
	fmt.Printf("Outcome: %v (offline: %v)\n", result["state"], result["offline"])
	fmt.Println()
	fmt.Println(dashLine)
	fmt.Println("ORIGINAL TEXT:")
	fmt.Println(dashLine)
	fmt.Println(textToTranslate)
	fmt.Println()
	fmt.Println(dashLine)
	fmt.Println("RESULT:")
	fmt.Println(dashLine)
	fmt.Println(result["message"])
	fmt.Println()
	fmt.Println(separator)

	logger.WithFields(logrus.Fields{
		"duration_seconds": time.Since(startTime).Seconds(),
		"ok":               result["ok"],
	}).Info("Translation completed")
}

// runChat sends each stdin line to one session and prints the reply.
func runChat(client *service.Client, logger *logrus.Logger) {
	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Type a message and press enter. Ctrl-D to quit, /clear to reset history.")

	for scanner.Scan() {
		line := scanner.Text()
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)

		var (
			resp *structpb.Struct
			err  error
		)
		if strings.TrimSpace(line) == "/clear" && sessionID != "" {
			resp, err = client.Clear(ctx, sessionID)
		} else {
			resp, err = client.Chat(ctx, sessionID, line, *direction)
		}
		cancel()
		if err != nil {
			logger.WithError(err).Error("Request failed")
			continue
		}

		m := resp.AsMap()
		if id, ok := m["session_id"].(string); ok {
			sessionID = id
		}
		if cleared, _ := m["cleared"].(bool); cleared {
			fmt.Println("Chat cleared!")
			continue
		}
		if result, ok := m["result"].(map[string]interface{}); ok {
			fmt.Printf("> %v\n", result["message"])
		}
		fmt.Printf("  [translations: %v]\n", m["translation_count"])
	}

	if err := scanner.Err(); err != nil {
		logger.WithError(err).Error("Failed to read input")
	}
}
