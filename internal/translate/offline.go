package translate

import "strings"

// offlineDictionary holds the few Korean translations known without a server
var offlineDictionary = map[string]string{
	"apple": "사과",
	"book":  "책",
	"sun":   "태양",
	"moon":  "달",
	"cat":   "고양이",
	"dog":   "개",
	"water": "물",
	"house": "집",
	"car":   "차",
	"hello": "안녕하세요",
}

// Offline returns a placeholder translation that needs no network.
// The result only depends on (text, target).
func Offline(text, target string) string {
	if text == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(text))
	if target == "ko" {
		if meaning, ok := offlineDictionary[key]; ok {
			return meaning
		}
		return text + " (번역)"
	}
	return text + " (translated)"
}
