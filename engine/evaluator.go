package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
)

// EvaluateAnswer scores a submitted answer against a question. It is a pure
// function; persisting the result is the caller's responsibility.
//
// CODE questions are not gradable yet and always score (false, 0).
func EvaluateAnswer(q courseModels.Question, answer interface{}) (bool, int) {
	switch q.AnswerType {
	case courseModels.AnswerMultipleChoice, courseModels.AnswerTrueFalse:
		correct := jsonString(q.CorrectAnswer)
		if correct == "" {
			return false, 0
		}
		if normalizeAnswer(answerText(answer)) == normalizeAnswer(correct) {
			return true, q.Points
		}
		return false, 0

	case courseModels.AnswerOpenEnded:
		acceptable := jsonStringSlice(q.AcceptableAnswers)
		if len(acceptable) == 0 {
			return false, 0
		}
		got := normalizeAnswer(answerText(answer))
		for _, want := range acceptable {
			if got == normalizeAnswer(want) {
				return true, q.Points
			}
		}
		return false, 0

	case courseModels.AnswerMathematical:
		// Exact trimmed match; no symbolic evaluation
		correct := jsonString(q.CorrectAnswer)
		if correct == "" {
			return false, 0
		}
		if strings.TrimSpace(answerText(answer)) == strings.TrimSpace(correct) {
			return true, q.Points
		}
		return false, 0

	case courseModels.AnswerMatching:
		return evaluateMatching(q, answer)

	default:
		// CODE and unrecognized types are not gradable
		return false, 0
	}
}

// evaluateMatching grades a key->value pairing with partial credit. The
// submission must be a mapping; anything else scores zero.
func evaluateMatching(q courseModels.Question, answer interface{}) (bool, int) {
	correct := jsonMap(q.CorrectAnswer)
	if len(correct) == 0 {
		return false, 0
	}

	submitted, ok := answerMap(answer)
	if !ok {
		return false, 0
	}

	matched := 0
	for key, want := range correct {
		if got, present := submitted[key]; present && valuesEqual(got, want) {
			matched++
		}
	}

	ratio := float64(matched) / float64(len(correct))
	points := int(math.Round(float64(q.Points) * ratio))
	return ratio == 1.0, points
}

// normalizeAnswer makes string comparison case and whitespace insensitive
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// answerText renders a submitted answer as a string for text comparison
func answerText(answer interface{}) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// answerMap extracts a submitted answer as a key->value mapping
func answerMap(answer interface{}) (map[string]interface{}, bool) {
	switch v := answer.(type) {
	case map[string]interface{}:
		return v, true
	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// valuesEqual compares two values through their canonical JSON encoding, so
// 3 (int) and 3.0 (decoded float64) compare equal
func valuesEqual(a, b interface{}) bool {
	return canonicalJSON(a) == canonicalJSON(b)
}

func canonicalJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// jsonString decodes a JSON column that holds a single string. A bare
// unquoted value is returned as-is for backward compatibility.
func jsonString(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// jsonStringSlice decodes a JSON column holding an array of strings
func jsonStringSlice(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// jsonMap decodes a JSON column holding an object
func jsonMap(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
