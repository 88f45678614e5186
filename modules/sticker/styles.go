package sticker

// StyleKey - 스타일 카탈로그의 정식 키 (닫힌 집합)
type StyleKey string

const (
	StyleGhibli       StyleKey = "GHIBLI"
	StyleAnimated     StyleKey = "ANIMATED"
	Style3DRender     StyleKey = "3D_RENDER"
	StyleAnime        StyleKey = "ANIME"
	StyleChibi        StyleKey = "CHIBI"
	StyleRetro80s     StyleKey = "RETRO_80S"
	StyleCyberpunk    StyleKey = "CYBERPUNK"
	StyleWatercolor   StyleKey = "WATERCOLOR"
	StylePastel       StyleKey = "PASTEL"
	StylePixelArt     StyleKey = "PIXEL_ART"
	StylePopArt       StyleKey = "POP_ART"
	StyleMinimalist   StyleKey = "MINIMALIST"
	StyleKawaii       StyleKey = "KAWAII"
	StyleComicBook    StyleKey = "COMIC_BOOK"
	StyleVintage      StyleKey = "VINTAGE"
	StyleNeon         StyleKey = "NEON"
	StyleGraffiti     StyleKey = "GRAFFITI"
	StyleStainedGlass StyleKey = "STAINED_GLASS"
	StyleDoodle       StyleKey = "DOODLE"
	StyleHolographic  StyleKey = "HOLOGRAPHIC"
)

// DefaultStyle - 인식 못한 스타일 입력의 대체값
const DefaultStyle = StyleAnimated

// StyleDefinition - 스타일별 프롬프트 조각 + 표시용 메타데이터
type StyleDefinition struct {
	Key            StyleKey `json:"type"`
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	PromptModifier string   `json:"promptModifier"`
	NegativePrompt string   `json:"negativePrompt"`
	Color          string   `json:"color"`
	PreviewImage   string   `json:"previewImage"`
	Emoji          string   `json:"emoji"`
	Lighting       string   `json:"lighting"`
	Composition    string   `json:"composition"`
	DefaultSubject string   `json:"-"`
}

// 표시 순서 유지
var catalog = []StyleDefinition{
	{
		Key: StyleGhibli, ID: "ghibli", Name: "Ghibli",
		Description:    "Studio Ghibli inspired anime art style",
		PromptModifier: "Studio Ghibli style, watercolor texture, soft colors, whimsical atmosphere, hand-painted look",
		NegativePrompt: "realistic, photorealistic, dark, horror, violent, sharp edges, 3D, neon",
		Color:          "linear-gradient(135deg, #d4a574 0%, #8b7355 100%)",
		PreviewImage:   "/styles/ghibli.svg", Emoji: "🍃",
		Lighting: "soft natural light", Composition: "centered subject",
		DefaultSubject: "a forest spirit",
	},
	{
		Key: StyleAnimated, ID: "animated", Name: "Cartoon",
		Description:    "Modern 2D animation style",
		PromptModifier: "modern cartoon style, clean outlines, flat colors, expressive features, Disney/Pixar inspired",
		NegativePrompt: "realistic, sketch, rough, 3D, photograph, blurry",
		Color:          "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		PreviewImage:   "/styles/cartoon.svg", Emoji: "🎬",
		Lighting: "bright studio lighting", Composition: "clear silhouette",
		DefaultSubject: "a cartoon character",
	},
	{
		Key: Style3DRender, ID: "3d-render", Name: "3D Render",
		Description:    "High-quality 3D rendered style",
		PromptModifier: "3D render, Pixar style, smooth surfaces, soft lighting, stylized 3D character",
		NegativePrompt: "2D, flat, sketch, watercolor, low poly, realistic human",
		Color:          "linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
		PreviewImage:   "/styles/3d-render.svg", Emoji: "🎮",
		Lighting: "studio three-point lighting", Composition: "three-quarter view",
		DefaultSubject: "a 3D mascot",
	},
	{
		Key: StyleAnime, ID: "anime", Name: "Anime",
		Description:    "Japanese anime style",
		PromptModifier: "anime style, large expressive eyes, cel-shaded colors, detailed hair, vibrant colors",
		NegativePrompt: "western cartoon, 3D, realistic, chibi, bad anatomy",
		Color:          "linear-gradient(135deg, #ff6b9d 0%, #c44569 100%)",
		PreviewImage:   "/styles/anime.svg", Emoji: "⭐",
		Lighting: "anime lighting", Composition: "dynamic pose",
		DefaultSubject: "an anime character",
	},
	{
		Key: StyleChibi, ID: "chibi", Name: "Chibi",
		Description:    "Cute chibi style",
		PromptModifier: "chibi style, oversized head, tiny body, cute features, pastel colors, kawaii",
		NegativePrompt: "realistic proportions, tall, serious, detailed",
		Color:          "linear-gradient(135deg, #ffecd2 0%, #fcb69f 100%)",
		PreviewImage:   "/styles/chibi.svg", Emoji: "🎀",
		Lighting: "soft flat lighting", Composition: "centered, simple pose",
		DefaultSubject: "a chibi character",
	},
	{
		Key: StyleRetro80s, ID: "retro-80s", Name: "Synthwave",
		Description:    "Nostalgic 80s aesthetic",
		PromptModifier: "synthwave style, neon colors, sunset gradient, retro 80s aesthetic",
		NegativePrompt: "modern, minimalist, muted colors, realistic",
		Color:          "linear-gradient(135deg, #ff0080 0%, #7928ca 100%)",
		PreviewImage:   "/styles/synthwave.svg", Emoji: "🌆",
		Lighting: "neon glow", Composition: "silhouette against gradient",
		DefaultSubject: "a retro character",
	},
	{
		Key: StyleCyberpunk, ID: "cyberpunk", Name: "Cyberpunk",
		Description:    "Futuristic cyberpunk style",
		PromptModifier: "cyberpunk style, neon lights, futuristic, cybernetic elements, urban dystopia",
		NegativePrompt: "natural, pastoral, bright daylight, vintage",
		Color:          "linear-gradient(135deg, #0f0c29 0%, #302b63 50%, #24243e 100%)",
		PreviewImage:   "/styles/cyberpunk.svg", Emoji: "🤖",
		Lighting: "neon lighting", Composition: "urban setting",
		DefaultSubject: "a cyberpunk character",
	},
	{
		Key: StyleWatercolor, ID: "watercolor", Name: "Watercolor",
		Description:    "Artistic watercolor painting",
		PromptModifier: "watercolor painting, soft edges, transparent colors, brush strokes",
		NegativePrompt: "digital, sharp edges, flat colors, 3D, photorealistic",
		Color:          "linear-gradient(135deg, #e0c3fc 0%, #8ec5fc 100%)",
		PreviewImage:   "/styles/watercolor.svg", Emoji: "🎨",
		Lighting: "soft natural light", Composition: "organic flow",
		DefaultSubject: "a butterfly",
	},
	{
		Key: StylePastel, ID: "pastel", Name: "Pastel Dream",
		Description:    "Soft pastel colors",
		PromptModifier: "pastel colors, soft aesthetic, cute styling, gentle colors",
		NegativePrompt: "dark, high contrast, neon, harsh",
		Color:          "linear-gradient(135deg, #fce7f3 0%, #ddd6fe 100%)",
		PreviewImage:   "/styles/pastel.svg", Emoji: "🌸",
		Lighting: "soft diffused light", Composition: "gentle curves",
		DefaultSubject: "a cute bunny",
	},
	{
		Key: StylePixelArt, ID: "pixel-art", Name: "Pixel Art",
		Description:    "Retro pixel art style",
		PromptModifier: "pixel art, retro video game style, limited colors, crisp pixels",
		NegativePrompt: "smooth, anti-aliased, high resolution, photorealistic",
		Color:          "linear-gradient(135deg, #11998e 0%, #38ef7d 100%)",
		PreviewImage:   "/styles/pixel-art.svg", Emoji: "👾",
		Lighting: "flat shading", Composition: "clear silhouette",
		DefaultSubject: "a game character",
	},
	{
		Key: StylePopArt, ID: "pop-art", Name: "Pop Art",
		Description:    "Andy Warhol inspired",
		PromptModifier: "pop art style, bold colors, Ben-Day dots, comic book aesthetic",
		NegativePrompt: "subtle, muted, realistic, watercolor",
		Color:          "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
		PreviewImage:   "/styles/pop-art.svg", Emoji: "💥",
		Lighting: "flat graphic lighting", Composition: "bold graphic shapes",
		DefaultSubject: "a pop art portrait",
	},
	{
		Key: StyleMinimalist, ID: "minimalist", Name: "Minimalist",
		Description:    "Clean minimal design",
		PromptModifier: "minimalist design, simple shapes, limited colors, clean lines",
		NegativePrompt: "detailed, complex, busy, ornate",
		Color:          "linear-gradient(135deg, #e8e8e8 0%, #c4c4c4 100%)",
		PreviewImage:   "/styles/minimalist.svg", Emoji: "◯",
		Lighting: "flat lighting", Composition: "balanced negative space",
		DefaultSubject: "a geometric fox",
	},
	{
		Key: StyleKawaii, ID: "kawaii", Name: "Kawaii",
		Description:    "Super cute Japanese style",
		PromptModifier: "kawaii style, extremely cute, sparkly eyes, pastel colors",
		NegativePrompt: "scary, dark, realistic, serious",
		Color:          "linear-gradient(135deg, #fccb90 0%, #d57eeb 100%)",
		PreviewImage:   "/styles/kawaii.svg", Emoji: "💖",
		Lighting: "soft bright lighting", Composition: "centered cute subject",
		DefaultSubject: "a kawaii character",
	},
	{
		Key: StyleComicBook, ID: "comic-book", Name: "Comic Book",
		Description:    "Marvel/DC comic style",
		PromptModifier: "comic book style, bold outlines, dynamic poses, superhero aesthetic",
		NegativePrompt: "anime, cute, realistic, soft",
		Color:          "linear-gradient(135deg, #eb3349 0%, #f45c43 100%)",
		PreviewImage:   "/styles/comic-book.svg", Emoji: "💪",
		Lighting: "dramatic lighting", Composition: "heroic pose",
		DefaultSubject: "a superhero",
	},
	{
		Key: StyleVintage, ID: "vintage", Name: "Vintage",
		Description:    "Retro vintage aesthetic",
		PromptModifier: "vintage style, muted colors, retro aesthetic, classic illustration",
		NegativePrompt: "modern, digital, neon, futuristic",
		Color:          "linear-gradient(135deg, #c79081 0%, #dfa579 100%)",
		PreviewImage:   "/styles/vintage.svg", Emoji: "📺",
		Lighting: "warm lighting", Composition: "classic framing",
		DefaultSubject: "a vintage character",
	},
	{
		Key: StyleNeon, ID: "neon", Name: "Neon Glow",
		Description:    "Bright neon lights",
		PromptModifier: "neon glow, bright colors, glowing effects, dark background",
		NegativePrompt: "daylight, natural, muted, vintage",
		Color:          "linear-gradient(135deg, #00f260 0%, #0575e6 100%)",
		PreviewImage:   "/styles/neon.svg", Emoji: "✨",
		Lighting: "neon lighting", Composition: "glowing subject",
		DefaultSubject: "a neon figure",
	},
	{
		Key: StyleGraffiti, ID: "graffiti", Name: "Street Art",
		Description:    "Urban graffiti style",
		PromptModifier: "graffiti style, spray paint, urban art, bold colors",
		NegativePrompt: "clean, corporate, delicate, traditional",
		Color:          "linear-gradient(135deg, #f857a6 0%, #ff5858 100%)",
		PreviewImage:   "/styles/street-art.svg", Emoji: "🎤",
		Lighting: "daylight", Composition: "bold graphic",
		DefaultSubject: "a graffiti character",
	},
	{
		Key: StyleStainedGlass, ID: "stained-glass", Name: "Stained Glass",
		Description:    "Colorful stained glass",
		PromptModifier: "stained glass art, lead lines, jewel colors, translucent",
		NegativePrompt: "opaque, matte, realistic, modern",
		Color:          "linear-gradient(135deg, #4776e6 0%, #8e54e9 100%)",
		PreviewImage:   "/styles/stained-glass.svg", Emoji: "🏰",
		Lighting: "backlit", Composition: "segmented design",
		DefaultSubject: "a phoenix",
	},
	{
		Key: StyleDoodle, ID: "doodle", Name: "Doodle",
		Description:    "Hand-drawn doodle style",
		PromptModifier: "hand-drawn doodle, sketchy lines, pen on paper, whimsical",
		NegativePrompt: "polished, perfect, digital, 3D",
		Color:          "linear-gradient(135deg, #ffeaa7 0%, #dfe6e9 100%)",
		PreviewImage:   "/styles/doodle.svg", Emoji: "✏️",
		Lighting: "flat", Composition: "casual arrangement",
		DefaultSubject: "a doodle creature",
	},
	{
		Key: StyleHolographic, ID: "holographic", Name: "Holographic",
		Description:    "Iridescent holographic",
		PromptModifier: "holographic effect, rainbow colors, iridescent, shiny",
		NegativePrompt: "matte, flat, dull, natural",
		Color:          "linear-gradient(135deg, #a8c0ff 0%, #3f2b96 50%, #a8c0ff 100%)",
		PreviewImage:   "/styles/holographic.svg", Emoji: "🌈",
		Lighting: "iridescent", Composition: "showcasing color-shift",
		DefaultSubject: "a unicorn",
	},
}

var catalogByKey = func() map[StyleKey]StyleDefinition {
	m := make(map[StyleKey]StyleDefinition, len(catalog))
	for _, def := range catalog {
		m[def.Key] = def
	}
	return m
}()

// Catalog - 표시 순서대로 전체 스타일 (복사본)
func Catalog() []StyleDefinition {
	out := make([]StyleDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup - 정식 키로 스타일 조회
func Lookup(key StyleKey) (StyleDefinition, bool) {
	def, ok := catalogByKey[key]
	return def, ok
}

// Valid - 카탈로그에 있는 키인지
func (k StyleKey) Valid() bool {
	_, ok := catalogByKey[k]
	return ok
}

// Definition - 키의 정의 (없으면 기본 스타일)
func (k StyleKey) Definition() StyleDefinition {
	if def, ok := catalogByKey[k]; ok {
		return def
	}
	return catalogByKey[DefaultStyle]
}

const genericSubject = "a creative sticker design"

// DefaultSubject - 스타일별 기본 피사체
func DefaultSubject(key StyleKey) string {
	if def, ok := catalogByKey[key]; ok && def.DefaultSubject != "" {
		return def.DefaultSubject
	}
	return genericSubject
}
