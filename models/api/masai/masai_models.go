package masaimodels

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Индексы графиков в ответе анализатора видео
const (
	VoiceAmplitudeIndex = 1
	FramesIndex         = 2
	EmotionIndex        = 3
	SentimentIndex      = 4
)

var attachmentNames = map[int]string{
	VoiceAmplitudeIndex: "voice_amplitude",
	FramesIndex:         "frames",
	EmotionIndex:        "emotion",
	SentimentIndex:      "sentiment",
}

func AttachmentName(index int) (string, bool) {
	name, ok := attachmentNames[index]
	return name, ok
}

type GradioResponse struct {
	Elements []GradioUpdate
}

func (g GradioResponse) GetRecognizedText() string {
	for _, elem := range g.Elements {
		if elem.Info == "Recognized text" {
			value, _ := elem.ToString()
			return value
		}
	}
	return ""
}

type GradioUpdate struct {
	Info      string          `json:"info,omitempty"`
	Container bool            `json:"container,omitempty"`
	Visible   bool            `json:"visible,omitempty"`
	ElemClass []string        `json:"elem_classes,omitempty"`
	Value     json.RawMessage `json:"value"`
	Type      string          `json:"__type__"`
}

type PlotValue struct {
	Type string `json:"type"`
	Plot string `json:"plot"`
}

func (g GradioUpdate) ToString() (string, bool) {
	var value string
	if err := json.Unmarshal(g.Value, &value); err != nil {
		return "", false
	}
	return value, true
}

func (g GradioUpdate) ToPlotValue() (PlotValue, bool) {
	var value PlotValue
	if err := json.Unmarshal(g.Value, &value); err != nil || value.Plot == "" {
		return PlotValue{}, false
	}
	return value, true
}

// ToByteArr разбор data url вида "data:image/png;base64,...."
func (p PlotValue) ToByteArr() (contentType string, body []byte, err error) {
	data := strings.Split(p.Plot, ";")
	if len(data) != 2 {
		return "", nil, errors.New("некорректный формат")
	}
	contentType = strings.TrimPrefix(data[0], "data:")
	bodyBase := strings.Replace(data[1], "base64,", "", 1)
	body, err = base64.StdEncoding.DecodeString(bodyBase)
	if err != nil {
		return "", nil, err
	}
	return contentType, body, nil
}
