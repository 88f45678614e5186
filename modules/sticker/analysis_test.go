package sticker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPeopleJSON = `{
  "imageType": "people",
  "totalPeople": 2,
  "totalAnimals": 0,
  "totalObjects": 1,
  "people": [
    {
      "position": "left",
      "gender": "female",
      "approximateAge": "young adult (20-35)",
      "skinTone": "medium brown",
      "hairColor": "black",
      "hairLength": "shoulder-length",
      "hairTexture": "curly",
      "facialHair": "none",
      "headwear": "baseball cap red",
      "eyewear": "none",
      "topClothing": "yellow hoodie",
      "footwear": "not visible",
      "facialExpression": "broad smile showing teeth"
    },
    {
      "position": "right",
      "gender": "male",
      "bodyType": "average",
      "topClothing": "white t-shirt",
      "topClothingDetails": "red logo on chest",
      "armPosition": "at sides"
    }
  ],
  "objects": [{"name": "skateboard", "color": "green", "position": "bottom"}],
  "subjectInteraction": "standing side by side",
  "background": {"setting": "city park", "lighting": "sunset"},
  "overallMood": "cheerful"
}`

func TestParseAnalysisRendersSentinel(t *testing.T) {
	analysis, err := ParseAnalysis(twoPeopleJSON)
	require.NoError(t, err)

	text := analysis.Render()
	assert.True(t, strings.HasPrefix(text, "EXACTLY 2 people"))
	assert.Contains(t, text, "[LEFT]:")
	assert.Contains(t, text, "with medium brown skin")
	assert.Contains(t, text, "black shoulder-length curly hair")
	assert.Contains(t, text, "wearing baseball cap red")
	assert.Contains(t, text, "dressed in white t-shirt (red logo on chest)")
	assert.Contains(t, text, "Also visible: 1 object")
	assert.Contains(t, text, "green skateboard at bottom")
	assert.Contains(t, text, "BACKGROUND: city park, sunset lighting")
	assert.Contains(t, text, "Mood: cheerful")

	// none / not visible / average / at sides 값은 생략
	assert.NotContains(t, text, "none")
	assert.NotContains(t, text, "not visible")
	assert.NotContains(t, text, "average build")
	assert.NotContains(t, text, "arms at sides")
}

func TestRenderSentinelMatchesCount(t *testing.T) {
	cases := []struct {
		analysis ImageAnalysis
		sentinel string
	}{
		{ImageAnalysis{TotalPeople: 1}, "EXACTLY 1 person"},
		{ImageAnalysis{TotalPeople: 3, People: []PersonDetail{{Position: "center"}}}, "EXACTLY 3 people"},
		{ImageAnalysis{TotalObjects: 1}, "EXACTLY 1 object"},
		{ImageAnalysis{TotalObjects: 4}, "EXACTLY 4 objects"},
		{ImageAnalysis{TotalAnimals: 2}, "EXACTLY 2 animals"},
	}
	for _, c := range cases {
		assert.Contains(t, c.analysis.Render(), c.sentinel)
	}
}

func TestRenderUnnamedPersonUsesIndex(t *testing.T) {
	a := ImageAnalysis{TotalPeople: 2, People: []PersonDetail{{Gender: "female"}, {Gender: "unclear"}}}
	text := a.Render()
	assert.Contains(t, text, "[PERSON 1]:")
	assert.Contains(t, text, "[PERSON 2]:")
	assert.NotContains(t, text, "unclear")
}

func TestParseAnalysisRejectsInvalidBodies(t *testing.T) {
	for _, body := range []string{
		"",
		"   ",
		"I'm sorry, I can't help with that.",
		`{"totalPeople": 0, "totalAnimals": 0, "totalObjects": 0}`,
		`{"imageType": "scene"}`,
		`{"totalPeople": "lots"}`,
	} {
		_, err := ParseAnalysis(body)
		assert.Error(t, err, body)
	}
}

func TestCountAcceptsLooseNumbers(t *testing.T) {
	a, err := ParseAnalysis(`{"totalPeople": "2", "totalObjects": 1.0}`)
	require.NoError(t, err)
	assert.Equal(t, Count(2), a.TotalPeople)
	assert.Equal(t, Count(1), a.TotalObjects)
	assert.Contains(t, a.Render(), "EXACTLY 2 people")
}

func TestRenderOmitsNoneEverywhere(t *testing.T) {
	person := PersonDetail{
		Position: "none", DistanceFromCamera: "None", Gender: "none", ApproximateAge: "none",
		Ethnicity: "none", SkinTone: "none", FaceShape: "none", FacialFeatures: "none",
		Eyes: "none", HairColor: "none", HairTexture: "none", HairLength: "none",
		HairStyle: "none", FacialHair: "none", FacialExpression: "none", EmotionalState: "none",
		EyeContact: "none", BodyPosture: "none", ArmPosition: "none", HandDetails: "none",
		BodyType: "none", Height: "none", Headwear: "none", Eyewear: "NONE",
		EarAccessories: "none", NeckAccessories: "none", WristAccessories: "none",
		FingerAccessories: "none", TopClothing: "none", TopClothingDetails: "none",
		BottomClothing: "none", BottomClothingDetails: "none", Footwear: "none",
		OuterLayer: "none", BagOrCarry: "none", OtherAccessories: "none", OverallStyle: " none ",
	}
	a := ImageAnalysis{
		TotalPeople:  1,
		TotalAnimals: 1,
		TotalObjects: 1,
		People:       []PersonDetail{person},
		Animals: []AnimalDetail{{
			Species: "none", Breed: "none", Color: "none", Size: "none",
			Pose: "none", Expression: "none", Accessories: "none", NotableFeatures: "none",
		}},
		Objects: []ObjectDetail{{
			Name: "none", Color: "none", Material: "none", Size: "none",
			Position: "none", Details: "none",
		}},
		SubjectInteraction: "none",
		PhotoComposition:   &PhotoComposition{ShotType: "none", Angle: "none", Framing: "none"},
		Background: &BackgroundDetail{
			Setting: "none", IndoorOutdoor: "none", MainElements: "none",
			DominantColors: "none", Lighting: "none", Atmosphere: "none",
		},
		DominantColors: []string{"none", "None"},
		OverallMood:    "none",
	}

	text := a.Render()
	assert.NotContains(t, strings.ToLower(text), "none")
	assert.Equal(t, "EXACTLY 1 person. [PERSON 1]:. EXACTLY 1 animal. Also visible: 1 object", text)
}

func TestRenderKeepsValuesContainingNone(t *testing.T) {
	a := ImageAnalysis{TotalObjects: 1, Objects: []ObjectDetail{{Name: "nonet sheet music", Color: "none"}}}
	assert.Equal(t, "EXACTLY 1 object. nonet sheet music", a.Render())
}
