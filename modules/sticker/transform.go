package sticker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	exactPeoplePattern = regexp.MustCompile(`(?i)EXACTLY\s*(\d+)\s*(?:person|people)`)
	exactObjectPattern = regexp.MustCompile(`(?i)EXACTLY\s*(\d+)\s*(?:object|objects)`)
)

// 이 키워드가 있으면 커스텀 텍스트를 스타일 지시문으로 취급
var styleKeywords = []string{
	"style", "ghibli", "anime", "disney", "pixar",
	"watercolor", "cartoon", "cinematic", "realistic", "artistic",
}

const customStyleMinLen = 50

// HasCustomStyleInstructions - 커스텀 텍스트가 스타일 지시를 담고 있는지
func HasCustomStyleInstructions(customText string) bool {
	if customText == "" {
		return false
	}
	lower := strings.ToLower(customText)
	for _, kw := range styleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return len(customText) > customStyleMinLen
}

// UseCustomStyleMode - customPromptOnly 이거나 스타일 지시가 담긴 커스텀 텍스트
func UseCustomStyleMode(customText string, customOnly bool) bool {
	if strings.TrimSpace(customText) == "" {
		return false
	}
	return customOnly || HasCustomStyleInstructions(customText)
}

// Transform - 이미지 설명을 최종 생성 프롬프트로 변환 (항상 비어있지 않은 문자열)
func Transform(desc Description, styleName, customStyleText string, customMode bool) string {
	text := strings.TrimSpace(desc.Text)
	if text == "" {
		text = "a subject in a simple setting"
	}
	if strings.TrimSpace(styleName) == "" {
		styleName = "artistic"
	}

	effectiveStyle := styleName
	if customMode && strings.TrimSpace(customStyleText) != "" {
		effectiveStyle = strings.TrimSpace(customStyleText)
	} else {
		customMode = false
	}

	people := desc.People
	if people <= 0 {
		people = countFromSentinel(exactPeoplePattern, text)
	}
	objects := desc.Objects
	if objects <= 0 {
		objects = countFromSentinel(exactObjectPattern, text)
	}
	if people <= 0 && desc.Animals > 0 {
		objects = 0
	}

	switch {
	case people > 0:
		phrase := numberToWord(people, "person", "people")
		if customMode {
			return fmt.Sprintf(peopleCustomTemplate, effectiveStyle, phrase, text, phrase, people-1, people+1, people)
		}
		return fmt.Sprintf(peopleStandardTemplate, styleName, phrase, text, phrase, people-1, people+1, people, styleName)

	case objects > 0:
		phrase := numberToWord(objects, "object", "objects")
		if customMode {
			return fmt.Sprintf(objectsCustomTemplate, effectiveStyle, phrase, text, phrase)
		}
		return fmt.Sprintf(objectsStandardTemplate, styleName, phrase, text, phrase, styleName)

	default:
		if customMode {
			return fmt.Sprintf(otherCustomTemplate, effectiveStyle, text)
		}
		return fmt.Sprintf(otherStandardTemplate, styleName, text, styleName)
	}
}

func countFromSentinel(pattern *regexp.Regexp, text string) int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

var numberWords = map[int]string{
	1: "one", 2: "two", 3: "three", 4: "four", 5: "five",
	6: "six", 7: "seven", 8: "eight", 9: "nine", 10: "ten",
}

// numberToWord - 1~10은 영단어, 그 외 숫자 그대로
func numberToWord(n int, singular, pluralForm string) string {
	word, ok := numberWords[n]
	if !ok {
		word = strconv.Itoa(n)
	}
	return word + " " + plural(n, singular, pluralForm)
}

const (
	noTextLong     = "ABSOLUTELY NO TEXT - No words, letters, numbers, labels, captions, watermarks, or any written content anywhere in the image."
	noPaletteLong  = "NO COLOR PALETTES - Do not add any color swatches, color palette strips, color samples, color bars, or reference colors at the edges or bottom of the image. The image should contain ONLY the sticker illustration itself with nothing else."
	noTextShort    = "ABSOLUTELY NO TEXT - No words, letters, numbers, or writing anywhere."
	noPaletteShort = "NO COLOR PALETTES - No color swatches, color strips, or color samples at the edges or bottom of the image."
)

// 인물 수 강조 템플릿 (커스텀 스타일)
const peopleCustomTemplate = `%s

APPLY THE ABOVE STYLE TO THIS SUBJECT - Create a sticker illustration showing EXACTLY %s:

DETAILED SUBJECT DESCRIPTION:
%s

CRITICAL REQUIREMENTS - MUST FOLLOW:
1. STYLE: Follow the style instructions above EXACTLY as specified
2. NUMBER: Show EXACTLY %s - not %d, not %d, EXACTLY %d
3. SKIN TONES: Match the exact skin tones described for each person
4. GENDER: Match the gender of each person as described
5. CLOTHING: Match exact clothing colors and types for each person
6. HAIR: Match exact hair color, length, and style for each person
7. POSES: Match the poses and actions described
8. EXPRESSIONS: Match the facial expressions and emotions described
9. ARRANGEMENT: Position people exactly as described (left/center/right)
10. BACKGROUND: Include the background setting as described

` + noTextLong + "\n" + noPaletteLong

const peopleStandardTemplate = `Create a %s style sticker illustration showing EXACTLY %s.

DETAILED SUBJECT DESCRIPTION:
%s

CRITICAL REQUIREMENTS - MUST FOLLOW:
1. NUMBER: Show EXACTLY %s - not %d, not %d, EXACTLY %d
2. SKIN TONES: Match the exact skin tones described for each person
3. GENDER: Match the gender of each person as described
4. CLOTHING: Match exact clothing colors and types for each person
5. HAIR: Match exact hair color, length, and style for each person
6. POSES: Match the poses and actions described
7. EXPRESSIONS: Match the facial expressions and emotions described
8. ARRANGEMENT: Position people exactly as described (left/center/right)
9. BACKGROUND: Include the background setting as described
10. STYLE: %s artistic style with clean sticker edges

` + noTextLong + "\n" + noPaletteLong

const objectsCustomTemplate = `%s

APPLY THE ABOVE STYLE TO THIS SUBJECT - Create a sticker illustration showing EXACTLY %s:

DETAILED SUBJECT DESCRIPTION:
%s

CRITICAL REQUIREMENTS:
1. STYLE: Follow the style instructions above EXACTLY as specified
2. NUMBER: Show EXACTLY %s as described
3. COLORS: Match exact colors for each object
4. DETAILS: Include all specific details mentioned
5. ARRANGEMENT: Position objects as described
6. BACKGROUND: Include background as described

` + noTextShort + "\n" + noPaletteShort

const objectsStandardTemplate = `Create a %s style sticker illustration showing EXACTLY %s.

DETAILED SUBJECT DESCRIPTION:
%s

CRITICAL REQUIREMENTS:
1. NUMBER: Show EXACTLY %s as described
2. COLORS: Match exact colors for each object
3. DETAILS: Include all specific details mentioned
4. ARRANGEMENT: Position objects as described
5. BACKGROUND: Include background as described
6. STYLE: %s artistic style with clean sticker edges

` + noTextShort + "\n" + noPaletteShort

const otherCustomTemplate = `%s

APPLY THE ABOVE STYLE TO CREATE A STICKER ILLUSTRATION:

DETAILED DESCRIPTION:
%s

REQUIREMENTS:
- Follow the style instructions above EXACTLY as specified
- Match all visual details exactly as described
- Match all colors exactly as described
- Include background as described
- Create clean sticker edges
- ABSOLUTELY NO TEXT, words, letters, or writing anywhere in the image
- NO COLOR PALETTES, color swatches, or color samples at edges or bottom of image`

const otherStandardTemplate = `Create a %s style sticker illustration:

DETAILED DESCRIPTION:
%s

REQUIREMENTS:
- Match all visual details exactly as described
- Match all colors exactly as described
- Include background as described
- %s artistic style with clean sticker edges
- ABSOLUTELY NO TEXT, words, letters, or writing anywhere in the image
- NO COLOR PALETTES, color swatches, or color samples at edges or bottom of image`
