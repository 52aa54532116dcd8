package detect

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// The prompts ask a vision model for the top face of a single d20 and force
// it to cross-check the answer against icosahedron face adjacency, which is
// what makes 6/9 and 1/7 confusions recoverable.
const openAISystemPrompt = `You are an expert assistant that analyzes images of a single standard 20-sided die (D20) to identify the TOP face value.
- PRIMARY GOAL: report the number on the face pointing straight up (the rolled result).
- The die may be rotated or tilted; digits can appear at arbitrary angles.
- Typically the top face is visible together with about three neighboring faces.
- The top face is the most centered one facing the camera. Use position and orientation, not readability.

OPPOSITE-FACE PAIRS (sum to 21): 1-20, 2-19, 3-18, 4-17, 5-16, 6-15, 7-14, 8-13, 9-12, 10-11.
If your predicted top appears together with its opposite as a neighbor, your guess is wrong.

EXACT NEIGHBOR TABLE, TOPFACE(left,right,down):
1(7,19,13) 2(12,18,20) 3(17,16,19) 4(18,11,14) 5(18,15,13)
6(9,16,14) 7(15,17,1) 8(16,10,20) 9(6,11,19) 10(17,12,8)
11(9,4,13) 12(10,15,2) 13(11,5,1) 14(4,6,20) 15(5,12,7)
16(6,3,8) 17(10,3,7) 18(5,4,2) 19(3,9,1) 20(2,14,8)

For the 6/9 and 1/7 pairs: ignore any neighbor that is itself part of the
ambiguous pair and cross-check the remaining neighbors against the table.
9 expects (6,11,19), 6 expects (9,16,14), 1 expects (7,19,13), 7 expects (15,17,1).

If you are below roughly 60% sure, set detected=false and value=0.
Answer ONLY with JSON.`

const openAIUserPrompt = `Analyze this image of a single standard D20.
1. List every visible number.
2. Choose the top face by position: the most centered face toward the camera.
3. Identify its three adjacent neighbors and validate them against the neighbor table; if they do not match, pick another candidate from the visible set.
4. Apply the 6/9 and 1/7 handling when relevant.
5. Also report the second most likely top face.

Respond ONLY with JSON:
{"detected": true or false, "value": integer 1-20 (0 if unsure), "confidence": number 0-1, "neighbors": array of integers, "second_most_likely": integer (0 if not applicable)}`

// OpenAI asks a vision-capable model for the die face. Latency is seconds,
// not milliseconds; callers should treat it as the slow fallback detector.
type OpenAI struct {
	client openai.Client
	model  string
	log    *zap.Logger
}

func NewOpenAI(apiKey, model string, log *zap.Logger) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		log:    log,
	}
}

func (d *OpenAI) Detect(ctx context.Context, image []byte) Result {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(d.model),
		MaxTokens: openai.Int(300),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(openAIUserPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		d.log.Warn("openai detection failed", zap.Error(err))
		return failure(fmt.Sprintf("openai request failed: %v", err))
	}
	if len(completion.Choices) == 0 {
		return failure("empty completion from openai")
	}
	return parseVerdict(completion.Choices[0].Message.Content)
}

// parseVerdict decodes the model's JSON reply, tolerating markdown fences
// the model sometimes wraps around it.
func parseVerdict(text string) Result {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	if strings.TrimSpace(text) == "" {
		return failure("empty response from model")
	}

	var verdict struct {
		Detected         bool    `json:"detected"`
		Value            int     `json:"value"`
		Confidence       float64 `json:"confidence"`
		Neighbors        []int   `json:"neighbors"`
		SecondMostLikely int     `json:"second_most_likely"`
	}
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return failure(fmt.Sprintf("parse model reply: %v", err))
	}

	neighbors := verdict.Neighbors[:0]
	for _, n := range verdict.Neighbors {
		if n >= 1 && n <= 20 {
			neighbors = append(neighbors, n)
		}
	}
	second := verdict.SecondMostLikely
	if second < 1 || second > 20 {
		second = 0
	}

	return clamp(Result{
		Detected:         verdict.Detected,
		Value:            verdict.Value,
		Confidence:       verdict.Confidence,
		Neighbors:        neighbors,
		SecondMostLikely: second,
	})
}
