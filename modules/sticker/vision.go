package sticker

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"synthetik-sticker-server/modules/common/fallback"
	"synthetik-sticker-server/modules/common/imagegen"
	"synthetik-sticker-server/modules/common/utils"
)

// DescriptionSource - 설명이 어느 경로에서 만들어졌는지
type DescriptionSource string

const (
	SourceStructured DescriptionSource = "structured"
	SourceFreeText   DescriptionSource = "freeText"
	SourceCanned     DescriptionSource = "canned"
)

// Description - 분석 결과 문장 + 개수 (개수는 텍스트를 거치지 않고 직접 전달)
type Description struct {
	Text    string
	Source  DescriptionSource
	People  int
	Animals int
	Objects int
}

// stageOutcome - 구조화 분석 결과 분류
type stageOutcome int

const (
	outcomeStructured stageOutcome = iota
	outcomeInvalid
	outcomeRequestFailed
)

const (
	structuredMaxTokens = 2000
	freeTextMaxTokens   = 1200
)

// Analyzer - 참고 이미지를 스티커 프롬프트용 설명으로 변환
type Analyzer struct {
	client imagegen.VisionClient
}

func NewAnalyzer(client imagegen.VisionClient) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze - 구조화 분석 → (무효 시) 자유 텍스트 분석 → 고정 문구. 에러를 반환하지 않음
func (a *Analyzer) Analyze(ctx context.Context, imageBase64, styleHint string) Description {
	imageURL := utils.CleanDataURL(imageBase64)

	analysis, outcome := a.structured(ctx, imageURL)
	switch outcome {
	case outcomeStructured:
		desc := Description{
			Text:    analysis.Render(),
			Source:  SourceStructured,
			People:  int(analysis.TotalPeople),
			Animals: int(analysis.TotalAnimals),
		}
		// 인물/동물이 있으면 사물은 "Also visible"로만 렌더링되므로 개수 지시에서 제외
		if desc.People == 0 && desc.Animals == 0 {
			desc.Objects = int(analysis.TotalObjects)
		}
		log.Printf("🔍 [Vision] Structured analysis: %d people, %d animals, %d objects",
			desc.People, desc.Animals, desc.Objects)
		return desc

	case outcomeRequestFailed:
		log.Printf("⚠️ [Vision] Structured request failed, using canned description")
		return Description{Text: fallback.ErrorDescription, Source: SourceCanned}

	default:
		log.Printf("⚠️ [Vision] Structured analysis invalid, falling back to free text")
		return a.freeText(ctx, imageURL, styleHint)
	}
}

func (a *Analyzer) structured(ctx context.Context, imageURL string) (*ImageAnalysis, stageOutcome) {
	body, err := a.client.Describe(ctx, imagegen.VisionRequest{
		SystemPrompt: structuredSystemPrompt,
		UserPrompt:   structuredUserPrompt,
		ImageDataURL: imageURL,
		JSONMode:     true,
		MaxTokens:    structuredMaxTokens,
	})
	if err != nil {
		log.Printf("❌ [Vision] Structured request error: %v", err)
		return nil, outcomeRequestFailed
	}

	analysis, err := ParseAnalysis(body)
	if err != nil {
		log.Printf("⚠️ [Vision] %v (body: %s)", err, utils.TruncateString(body, 200))
		return nil, outcomeInvalid
	}
	return analysis, outcomeStructured
}

func (a *Analyzer) freeText(ctx context.Context, imageURL, styleHint string) Description {
	text, err := a.client.Describe(ctx, imagegen.VisionRequest{
		UserPrompt:   fmt.Sprintf(freeTextPromptTemplate, styleHint),
		ImageDataURL: imageURL,
		MaxTokens:    freeTextMaxTokens,
	})
	if err != nil {
		log.Printf("❌ [Vision] Free-text request error: %v", err)
		return Description{Text: fallback.ErrorDescription, Source: SourceCanned}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Description{Text: fallback.EmptyDescription, Source: SourceCanned}
	}
	if fallback.ContainsRefusal(text) {
		log.Printf("⚠️ [Vision] Model refused analysis, using canned description")
		return Description{Text: fallback.RefusalDescription, Source: SourceCanned}
	}

	desc := Description{Text: text, Source: SourceFreeText}
	desc.People, desc.Animals, desc.Objects = leadingCounts(text)
	return desc
}

var leadingCountPattern = regexp.MustCompile(`(?i)^\W*(\d+)\s+(person|people|objects?|animals?)\b`)

// leadingCounts - "2 people: ..." 형태의 선두 개수 추출
func leadingCounts(text string) (people, animals, objects int) {
	m := leadingCountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, 0, 0
	}
	switch noun := strings.ToLower(m[2]); {
	case noun == "person" || noun == "people":
		return n, 0, 0
	case strings.HasPrefix(noun, "animal"):
		return 0, n, 0
	default:
		return 0, 0, n
	}
}

const structuredSystemPrompt = `You are a FORENSIC VISUAL DETECTIVE - the world's best observer. Your job is to analyze images with EXTREME precision like you're documenting evidence. Miss NOTHING about the subjects. Every detail matters: what they wear, how they stand, their expression, accessories, colors. You have a photographic memory for details. Output valid JSON only.`

const structuredUserPrompt = `DETECTIVE ANALYSIS - Examine this image like evidence. Document EVERY observable detail.

PRIORITY: 100% DETAIL ON SUBJECTS (people/animals/objects) + 30% BACKGROUND CONTEXT

Return JSON:

{
  "imageType": "people/objects/mixed/animal/scene",
  "totalPeople": <COUNT HEADS CAREFULLY - this is CRITICAL>,
  "totalAnimals": <exact count>,
  "totalObjects": <main objects count>,
  "people": [
    {
      "position": "left/center/right/foreground/background",
      "distanceFromCamera": "close-up/medium/far",
      "gender": "male/female",
      "approximateAge": "infant/toddler/child (3-12)/teenager (13-19)/young adult (20-35)/adult (36-50)/middle-aged (51-65)/senior (65+)",
      "ethnicity": "observed ethnicity",
      "skinTone": "very dark brown/dark brown/medium brown/caramel/tan/olive/light brown/fair/pale/pink",
      "faceShape": "oval/round/square/heart/oblong/diamond",
      "facialFeatures": "notable features - prominent cheekbones, dimples, freckles, moles, scars",
      "hairColor": "jet black/black/dark brown/medium brown/light brown/dirty blonde/blonde/strawberry blonde/red/auburn/gray/silver/white/bald/dyed [color]",
      "hairTexture": "straight/wavy/curly/coily/kinky",
      "hairLength": "bald/shaved/buzzcut/short/ear-length/chin-length/shoulder-length/mid-back/long",
      "hairStyle": "loose/ponytail/bun/braids/cornrows/dreadlocks/afro/mohawk/slicked back/parted/messy/styled",
      "facialHair": "none/clean shaven/5 o'clock shadow/stubble/mustache/goatee/short beard/full beard/long beard",
      "eyebrows": "thin/medium/thick/arched/straight/bushy",
      "eyes": "shape and color - round brown/almond black/hooded blue/etc",
      "nose": "small/medium/large/wide/narrow/pointed/rounded",
      "lips": "thin/medium/full",
      "facialExpression": "broad smile showing teeth/closed-mouth smile/slight smirk/neutral/serious/frowning/laughing/surprised/thoughtful/squinting",
      "emotionalState": "happy/joyful/content/excited/proud/confident/relaxed/focused/pensive/tired",
      "eyeContact": "looking directly at camera/looking away left/looking away right/looking up/looking down/eyes closed",
      "headPosition": "straight/tilted left/tilted right/looking up/looking down/turned left/turned right",
      "bodyPosture": "standing straight/standing relaxed/leaning/sitting upright/sitting relaxed/crouching/kneeling/lying down",
      "armPosition": "at sides/crossed/on hips/raised/one raised/holding something/hugging/gesturing",
      "handDetails": "visible hands doing what - holding phone/in pockets/making gesture/etc",
      "bodyType": "petite/slim/lean/average/athletic/muscular/stocky/heavy/plus-size",
      "height": "appears short/average/tall relative to others or objects",
      "headwear": "none/baseball cap [color]/snapback [color]/beanie [color]/bucket hat/sun hat/fedora/visor/headband/bandana/hijab [color]/turban [color]/helmet/hood up",
      "eyewear": "none/prescription glasses [frame color and style]/sunglasses [style - aviator/wayfarer/round/sport] [color]/reading glasses",
      "earAccessories": "none/stud earrings [color/material]/hoop earrings [size]/dangling earrings/ear cuff/airpods/headphones",
      "neckAccessories": "none/thin chain necklace [color]/thick chain [color]/pendant necklace/choker/scarf [color and pattern]/tie [color and pattern]/bowtie",
      "wristAccessories": "none/watch [style and color]/bracelet [type]/multiple bracelets/fitness band/bangles",
      "fingerAccessories": "none/ring(s) [which finger, color]",
      "topClothing": "[EXACT color] [material if visible] [style] - e.g., 'navy blue cotton polo shirt with white collar and small logo on chest'",
      "topClothingDetails": "buttons/zipper/graphics/logos/text/patterns/collar style/sleeve length",
      "bottomClothing": "[EXACT color] [material] [style] - e.g., 'faded light blue denim skinny jeans with ripped knees'",
      "bottomClothingDetails": "fit/rips/patterns/pockets visible",
      "footwear": "not visible/barefoot/[EXACT color] [brand if visible] [style] - e.g., 'white Nike Air Force 1 sneakers'",
      "outerLayer": "none/jacket [color, type]/hoodie [color]/coat [color, type]/vest/cardigan",
      "bagOrCarry": "none/backpack [color]/handbag [color]/tote/messenger bag/shopping bag/briefcase",
      "otherAccessories": "none/belt [color]/umbrella/phone in hand/drink/food/book/camera/any held items",
      "clothingCondition": "neat/casual/wrinkled/formal/sporty/dressed up/dressed down",
      "overallStyle": "casual/formal/business casual/sporty/streetwear/bohemian/elegant/grunge"
    }
  ],
  "animals": [
    {
      "species": "specific animal",
      "breed": "breed if identifiable",
      "color": "detailed fur/feather colors and patterns",
      "size": "toy/small/medium/large/giant",
      "position": "location in frame",
      "pose": "sitting/standing/lying/walking/running/playing",
      "expression": "happy/alert/sleepy/playful/anxious/calm",
      "accessories": "collar [color]/leash/clothing/harness/none",
      "notableFeatures": "any distinctive markings or features"
    }
  ],
  "objects": [
    {
      "name": "object name",
      "type": "category",
      "color": "exact colors",
      "material": "material type",
      "size": "relative size",
      "position": "where in frame",
      "details": "notable details"
    }
  ],
  "subjectInteraction": "how subjects interact - hugging/holding hands/talking/looking at each other/standing apart/grouped together",
  "background": {
    "setting": "specific location type",
    "indoorOutdoor": "indoor/outdoor/partially covered",
    "mainElements": "key background elements briefly",
    "dominantColors": "2-3 main background colors",
    "lighting": "natural daylight/overcast/sunset/artificial/mixed/flash/studio",
    "atmosphere": "mood of the setting"
  },
  "photoComposition": {
    "shotType": "extreme close-up/close-up/medium close-up/medium shot/medium full/full shot/wide shot",
    "angle": "eye level/slight low/low angle/slight high/high angle/bird's eye/worm's eye",
    "framing": "centered/rule of thirds/off-center left/off-center right"
  },
  "overallMood": "the emotional feeling of the image",
  "dominantColors": ["top 5 colors in entire image"]
}

DETECTIVE RULES:
1. COUNT SUBJECTS PRECISELY - Count every head visible. 1 person = 1. 3 people = 3. NO GUESSING.
2. ACCESSORIES ARE EVIDENCE - Caps, hats, glasses, sunglasses, jewelry, watches = DOCUMENT ALL
3. COLORS ARE SPECIFIC - Not "blue" but "navy blue" or "sky blue" or "royal blue"
4. SKIN TONES MATTER - Be precise and respectful: dark brown, medium brown, light brown, tan, olive, fair
5. CLOTHING IS IDENTITY - Full description with colors, style, any visible brands/logos
6. EXPRESSIONS TELL STORIES - Capture the exact facial expression and emotional state
7. POSES REVEAL CHARACTER - Document how they stand, sit, gesture
8. NOTHING IS INSIGNIFICANT - If you can see it, document it`

// %s = 대상 스타일
const freeTextPromptTemplate = `Describe this image in EXTREME DETAIL for an artist to recreate as a %s illustration.

REQUIRED FORMAT - Start with exact count:
"[EXACT COUNT] people/animals/objects: [DETAILED description]"

FOR EACH PERSON, DESCRIBE ALL:
1. BASICS: Gender, age, ethnicity appearance, skin tone (be specific: dark brown, medium brown, light brown, tan, olive, fair, pale)
2. FACE: Shape, expression, emotion, eye color
3. HAIR: Color, length, style (straight/curly/wavy), any specific styling
4. ACCESSORIES (CRITICAL):
   - Headwear: caps, hats, beanies, headbands, hijab, etc.
   - Eyewear: glasses, sunglasses (include frame color/style)
   - Jewelry: necklaces, earrings, bracelets, watches, rings
   - Other: bags, scarves, ties
5. CLOTHING (EXACT COLORS):
   - Top: "[exact color] [type]" e.g., "navy blue polo shirt with white collar"
   - Bottom: "[exact color] [type]" e.g., "light blue denim jeans"
   - Footwear: if visible
6. BODY: Type, pose, action
7. POSITION: Where in frame (left/center/right)

FOR OBJECTS/ANIMALS:
- Type, exact colors, size, material, position, notable details

BACKGROUND (50%% importance):
- Setting (indoor/outdoor, specific location)
- Colors, furniture, objects visible
- Nature elements (trees, sky, water)
- Lighting and atmosphere

EXAMPLE:
"1 person: Male adult with dark brown skin, oval face, short black curly hair, wearing black Ray-Ban sunglasses, gold stud earrings, navy blue Nike cap worn backwards, white Nike t-shirt with red swoosh logo, black jogger pants, white Air Jordan sneakers. Standing with arms crossed, confident smile, looking at camera. Background: urban street with graffiti wall (red, blue, yellow), sunny day. Mood: cool and confident."

COUNT CAREFULLY. If 1 person = say "1 person". If 3 people = say "3 people".`
