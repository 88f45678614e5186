package sticker

import "strings"

// styleAliases - 정규화(소문자, trim)된 입력 → 정식 키
var styleAliases = map[string]StyleKey{
	"ghibli":        StyleGhibli,
	"studio ghibli": StyleGhibli,

	"animated": StyleAnimated,
	"cartoon":  StyleAnimated,

	"3d render": Style3DRender,
	"3d":        Style3DRender,
	"3d_render": Style3DRender,
	"3d-render": Style3DRender,

	"anime": StyleAnime,
	"chibi": StyleChibi,

	"retro 80s": StyleRetro80s,
	"retro_80s": StyleRetro80s,
	"retro-80s": StyleRetro80s,
	"synthwave": StyleRetro80s,
	"80s":       StyleRetro80s,

	"cyberpunk":  StyleCyberpunk,
	"watercolor": StyleWatercolor,

	"pastel":       StylePastel,
	"pastel dream": StylePastel,
	"pastel_dream": StylePastel,
	"pastel-dream": StylePastel,

	"pixel art": StylePixelArt,
	"pixel_art": StylePixelArt,
	"pixel-art": StylePixelArt,
	"pixel":     StylePixelArt,

	"pop art": StylePopArt,
	"pop_art": StylePopArt,
	"pop-art": StylePopArt,
	"pop":     StylePopArt,

	"minimalist": StyleMinimalist,
	"minimal":    StyleMinimalist,
	"kawaii":     StyleKawaii,

	"comic book": StyleComicBook,
	"comic_book": StyleComicBook,
	"comic-book": StyleComicBook,
	"comic":      StyleComicBook,

	"vintage": StyleVintage,

	"neon":      StyleNeon,
	"neon glow": StyleNeon,
	"neon_glow": StyleNeon,
	"neon-glow": StyleNeon,

	"graffiti":   StyleGraffiti,
	"street art": StyleGraffiti,
	"street_art": StyleGraffiti,
	"street-art": StyleGraffiti,

	"stained glass": StyleStainedGlass,
	"stained_glass": StyleStainedGlass,
	"stained-glass": StyleStainedGlass,

	"doodle":      StyleDoodle,
	"holographic": StyleHolographic,
}

// ResolveStyle - 자유 입력을 정식 스타일 키로 변환 (실패 없음)
func ResolveStyle(input string) StyleKey {
	normalized := strings.ToLower(strings.TrimSpace(input))

	if key, ok := styleAliases[normalized]; ok {
		return key
	}

	if key := StyleKey(input); key.Valid() {
		return key
	}

	// 알 수 없는 스타일 → 기본 스타일
	return DefaultStyle
}
