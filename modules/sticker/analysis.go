package sticker

import (
	"encoding/json"
	"fmt"
	"strings"

	"synthetik-sticker-server/modules/common/fallback"
)

// Count - 모델이 숫자/문자열/소수 어느 형태로 보내도 받아들이는 개수
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Count(fallback.SafeInt(raw, 0))
	return nil
}

// PersonDetail - 인물 1명의 관찰 결과 (모든 필드 optional)
type PersonDetail struct {
	Position           string `json:"position"`
	DistanceFromCamera string `json:"distanceFromCamera"`
	Gender             string `json:"gender"`
	ApproximateAge     string `json:"approximateAge"`
	Ethnicity          string `json:"ethnicity"`
	SkinTone           string `json:"skinTone"`

	FaceShape      string `json:"faceShape"`
	FacialFeatures string `json:"facialFeatures"`
	Eyebrows       string `json:"eyebrows"`
	Eyes           string `json:"eyes"`
	Nose           string `json:"nose"`
	Lips           string `json:"lips"`

	HairColor   string `json:"hairColor"`
	HairTexture string `json:"hairTexture"`
	HairLength  string `json:"hairLength"`
	HairStyle   string `json:"hairStyle"`
	FacialHair  string `json:"facialHair"`

	FacialExpression string `json:"facialExpression"`
	EmotionalState   string `json:"emotionalState"`
	EyeContact       string `json:"eyeContact"`

	HeadPosition string `json:"headPosition"`
	BodyPosture  string `json:"bodyPosture"`
	ArmPosition  string `json:"armPosition"`
	HandDetails  string `json:"handDetails"`
	BodyType     string `json:"bodyType"`
	Height       string `json:"height"`

	Headwear          string `json:"headwear"`
	Eyewear           string `json:"eyewear"`
	EarAccessories    string `json:"earAccessories"`
	NeckAccessories   string `json:"neckAccessories"`
	WristAccessories  string `json:"wristAccessories"`
	FingerAccessories string `json:"fingerAccessories"`

	TopClothing           string `json:"topClothing"`
	TopClothingDetails    string `json:"topClothingDetails"`
	BottomClothing        string `json:"bottomClothing"`
	BottomClothingDetails string `json:"bottomClothingDetails"`
	Footwear              string `json:"footwear"`
	OuterLayer            string `json:"outerLayer"`

	BagOrCarry        string `json:"bagOrCarry"`
	OtherAccessories  string `json:"otherAccessories"`
	ClothingCondition string `json:"clothingCondition"`
	OverallStyle      string `json:"overallStyle"`
}

type AnimalDetail struct {
	Species         string `json:"species"`
	Breed           string `json:"breed"`
	Color           string `json:"color"`
	Size            string `json:"size"`
	Position        string `json:"position"`
	Pose            string `json:"pose"`
	Expression      string `json:"expression"`
	Accessories     string `json:"accessories"`
	NotableFeatures string `json:"notableFeatures"`
}

type ObjectDetail struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Material string `json:"material"`
	Size     string `json:"size"`
	Position string `json:"position"`
	Details  string `json:"details"`
}

type BackgroundDetail struct {
	Setting        string `json:"setting"`
	IndoorOutdoor  string `json:"indoorOutdoor"`
	MainElements   string `json:"mainElements"`
	DominantColors string `json:"dominantColors"`
	Lighting       string `json:"lighting"`
	Atmosphere     string `json:"atmosphere"`
}

type PhotoComposition struct {
	ShotType string `json:"shotType"`
	Angle    string `json:"angle"`
	Framing  string `json:"framing"`
}

// ImageAnalysis - 구조화 비전 응답
type ImageAnalysis struct {
	ImageType          string            `json:"imageType"`
	TotalPeople        Count             `json:"totalPeople"`
	TotalAnimals       Count             `json:"totalAnimals"`
	TotalObjects       Count             `json:"totalObjects"`
	People             []PersonDetail    `json:"people"`
	Animals            []AnimalDetail    `json:"animals"`
	Objects            []ObjectDetail    `json:"objects"`
	SubjectInteraction string            `json:"subjectInteraction"`
	Background         *BackgroundDetail `json:"background"`
	PhotoComposition   *PhotoComposition `json:"photoComposition"`
	OverallMood        string            `json:"overallMood"`
	DominantColors     []string          `json:"dominantColors"`
}

// ParseAnalysis - JSON 본문 파싱, 개수가 모두 0이면 사용 불가로 판단
func ParseAnalysis(body string) (*ImageAnalysis, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	var analysis ImageAnalysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if analysis.TotalPeople <= 0 && analysis.TotalAnimals <= 0 && analysis.TotalObjects <= 0 {
		return nil, fmt.Errorf("analysis reported no subjects")
	}
	return &analysis, nil
}

// Render - 분석 결과를 고정 규칙으로 문장화 (EXACTLY N 센티넬 포함)
func (a *ImageAnalysis) Render() string {
	var parts []string

	if a.TotalPeople > 0 {
		parts = append(parts, fmt.Sprintf("EXACTLY %d %s", a.TotalPeople, plural(int(a.TotalPeople), "person", "people")))
		for i, p := range a.People {
			parts = append(parts, renderPerson(i, p))
		}
	}

	if v := clean(a.SubjectInteraction); v != "" {
		parts = append(parts, "Interaction: "+v)
	}

	if a.TotalAnimals > 0 {
		parts = append(parts, fmt.Sprintf("EXACTLY %d %s", a.TotalAnimals, plural(int(a.TotalAnimals), "animal", "animals")))
		for _, an := range a.Animals {
			if d := renderAnimal(an); d != "" {
				parts = append(parts, d)
			}
		}
	}

	if a.TotalObjects > 0 {
		noun := plural(int(a.TotalObjects), "object", "objects")
		if a.TotalPeople == 0 && a.TotalAnimals == 0 {
			parts = append(parts, fmt.Sprintf("EXACTLY %d %s", a.TotalObjects, noun))
		} else {
			parts = append(parts, fmt.Sprintf("Also visible: %d %s", a.TotalObjects, noun))
		}
		for _, o := range a.Objects {
			if d := renderObject(o); d != "" {
				parts = append(parts, d)
			}
		}
	}

	if c := a.PhotoComposition; c != nil {
		if shot := joinPresent(", ", c.ShotType, c.Angle, c.Framing); shot != "" {
			parts = append(parts, "Shot: "+shot)
		}
	}

	if bg := a.Background; bg != nil {
		var bgParts []string
		add := func(v, format string) {
			if v = clean(v); v != "" {
				bgParts = append(bgParts, fmt.Sprintf(format, v))
			}
		}
		add(bg.Setting, "%s")
		add(bg.IndoorOutdoor, "(%s)")
		add(bg.MainElements, "%s")
		add(bg.DominantColors, "colors: %s")
		add(bg.Lighting, "%s lighting")
		add(bg.Atmosphere, "%s atmosphere")
		if len(bgParts) > 0 {
			parts = append(parts, "BACKGROUND: "+strings.Join(bgParts, ", "))
		}
	}

	if colors := joinPresent(", ", a.DominantColors...); colors != "" {
		parts = append(parts, "Colors: "+colors)
	}
	if v := clean(a.OverallMood); v != "" {
		parts = append(parts, "Mood: "+v)
	}

	return strings.Join(parts, ". ")
}

// clean - 공백 정리, 비어있거나 "none"이면 빈 문자열
func clean(v string, skip ...string) string {
	v = fallback.SafeString(v, "")
	if strings.EqualFold(v, "none") {
		return ""
	}
	for _, s := range skip {
		if strings.EqualFold(v, s) {
			return ""
		}
	}
	return v
}

func joinPresent(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = clean(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}

func renderPerson(index int, p PersonDetail) string {
	var d []string
	// format의 %s 자리에 값, 값이 없으면 생략
	add := func(v, format string, skip ...string) {
		if v = clean(v, skip...); v != "" {
			d = append(d, fmt.Sprintf(format, v))
		}
	}

	pos := clean(p.Position)
	if pos == "" {
		pos = fmt.Sprintf("person %d", index+1)
	}
	d = append(d, "["+strings.ToUpper(pos)+"]:")
	add(p.DistanceFromCamera, "(%s)")

	add(p.Gender, "%s", "unclear")
	add(p.ApproximateAge, "%s")
	add(p.Ethnicity, "%s")
	add(p.SkinTone, "with %s skin")

	add(p.FaceShape, "%s face")
	add(p.FacialFeatures, "(%s)")
	add(p.Eyes, "%s")

	add(joinPresent(" ", p.HairColor, p.HairLength, p.HairTexture, p.HairStyle), "%s hair")
	add(p.FacialHair, "with %s", "clean shaven")

	add(p.BodyType, "%s build", "average")
	add(p.Height, "(%s)")

	if accessories := joinPresent(", ", p.Headwear, p.Eyewear, p.EarAccessories, p.NeckAccessories, p.WristAccessories, p.FingerAccessories); accessories != "" {
		d = append(d, "wearing "+accessories)
	}

	var clothing []string
	if v := clean(p.OuterLayer); v != "" {
		clothing = append(clothing, v)
	}
	if v := clean(p.TopClothing); v != "" {
		clothing = append(clothing, withDetails(v, clean(p.TopClothingDetails)))
	}
	if v := clean(p.BottomClothing); v != "" {
		clothing = append(clothing, withDetails(v, clean(p.BottomClothingDetails)))
	}
	if v := clean(p.Footwear, "not visible"); v != "" {
		clothing = append(clothing, v)
	}
	if len(clothing) > 0 {
		d = append(d, "dressed in "+strings.Join(clothing, ", "))
	}

	add(p.BagOrCarry, "carrying %s")
	add(p.OtherAccessories, "with %s")
	add(p.OverallStyle, "%s style")

	add(p.FacialExpression, "%s")
	add(p.EmotionalState, "looking %s")
	add(p.EyeContact, "%s")

	add(p.BodyPosture, "%s")
	add(p.ArmPosition, "arms %s", "at sides")
	add(p.HandDetails, "%s", "not visible")

	return strings.Join(d, ", ")
}

func renderAnimal(a AnimalDetail) string {
	var d []string
	if v := joinPresent(" ", a.Color, a.Breed, a.Species); v != "" {
		d = append(d, v)
	}
	if v := clean(a.Size); v != "" {
		d = append(d, "("+v+")")
	}
	if v := clean(a.Pose); v != "" {
		d = append(d, v)
	}
	if v := clean(a.Expression); v != "" {
		d = append(d, "looking "+v)
	}
	if v := clean(a.Accessories); v != "" {
		d = append(d, "wearing "+v)
	}
	if v := clean(a.NotableFeatures); v != "" {
		d = append(d, "- "+v)
	}
	return strings.Join(d, " ")
}

func renderObject(o ObjectDetail) string {
	var d []string
	if v := joinPresent(" ", o.Color, o.Material, o.Name); v != "" {
		d = append(d, v)
	}
	if v := clean(o.Size); v != "" {
		d = append(d, "("+v+")")
	}
	if v := clean(o.Position); v != "" {
		d = append(d, "at "+v)
	}
	if v := clean(o.Details); v != "" {
		d = append(d, "- "+v)
	}
	return strings.Join(d, " ")
}

func withDetails(item, details string) string {
	if details == "" {
		return item
	}
	return item + " (" + details + ")"
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
