package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout: LLM replies can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Dr. Vain Session API Test\n")

	// 1. Start a session
	color.Yellow("\n1. Start Session")
	resp, body, err := sendRequest("POST", "/session/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var startResp map[string]interface{}
	json.Unmarshal(body, &startResp)
	prettyPrint(startResp)

	var sessionID string
	if data, ok := startResp["data"].(map[string]interface{}); ok {
		if id, ok := data["session_id"].(string); ok {
			sessionID = id
		}
	}
	if sessionID == "" {
		color.Red("No session_id returned, aborting")
		os.Exit(1)
	}

	// 2. Send a chat turn
	color.Yellow("\n2. Send Chat Turn")
	chatReq := map[string]interface{}{
		"chat": "I've been feeling anxious about my job lately.",
	}
	resp, body, err = sendRequest("POST", "/session/v1/"+sessionID+"/chat", chatReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	if data, ok := chatResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Reply: %s\n", data["reply"])
	} else {
		prettyPrint(chatResp)
	}

	// 3. Fetch session history
	color.Yellow("\n3. Get Session History")
	resp, body, err = sendRequest("GET", "/session/v1/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	prettyPrint(historyResp)

	// 4. End the session (archives it)
	color.Yellow("\n4. End Session")
	resp, body, err = sendRequest("DELETE", "/session/v1/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var endResp map[string]interface{}
	json.Unmarshal(body, &endResp)
	prettyPrint(endResp)

	// 5. Archive listing
	color.Yellow("\n5. Get Archive")
	resp, body, err = sendRequest("GET", "/session/v1/archive", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var archiveResp map[string]interface{}
	json.Unmarshal(body, &archiveResp)
	prettyPrint(archiveResp)

	// 6. Diagnosis report over archived sessions
	color.Yellow("\n6. Get Diagnosis Report")
	resp, body, err = sendRequest("GET", "/report/v1/diagnosis", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var diagResp map[string]interface{}
	json.Unmarshal(body, &diagResp)
	if data, ok := diagResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Report: %s\n", data["report"])
	} else {
		prettyPrint(diagResp)
	}

	// 7. Word stats
	color.Yellow("\n7. Get Word Stats")
	resp, body, err = sendRequest("GET", "/report/v1/word-stats", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statsResp map[string]interface{}
	json.Unmarshal(body, &statsResp)
	prettyPrint(statsResp)

	color.Cyan("\n✅ Test Sequence Complete")
}
