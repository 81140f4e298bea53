package gamestate

// Static configuration tables: stat ranges, the NPC roster, location
// vocabulary, placement probabilities and the item catalog. These are
// read-only; runtime state lives in GameState.

// Difficulty governs the favorability delta curve.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// GameMode selects between free narrative output and paged visual-novel
// output with per-page display directives.
type GameMode int

const (
	ModeClassic GameMode = 0
	ModeSLG     GameMode = 1
)

// Range bounds a single numeric stat.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Stat ranges. Every mutation path ends with a clamp pass against these.
var (
	TalentRanges = map[string]Range{
		"根骨": {0, 100},
		"悟性": {0, 100},
		"心性": {0, 100},
		"魅力": {0, 100},
	}
	StatRanges = map[string]Range{
		"武学": {0, 300},
		"学识": {0, 300},
		"声望": {0, 300},
		"金钱": {0, 999999},
	}
	CombatRanges = map[string]Range{
		"攻击力": {10, 300},
		"生命值": {25, 600},
	}
	MoodRange         = Range{0, 100}
	FavorabilityRange = Range{0, 100}
	ActionPointsRange = Range{0, 3}
	WeekRange         = Range{1, 9999}
)

// NPC is one roster entry. IDs are single uppercase letters.
type NPC struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// NPCs is the fixed roster, keyed by ID.
var NPCs = map[string]NPC{
	"A": {ID: "A", Name: "破阵子", Description: "天山派外务长老，西域义军统领，呼延显的师父。", Avatar: "A"},
	"B": {ID: "B", Name: "洞庭君", Description: "天山派刑罚长老，钱塘君的姐姐。", Avatar: "B"},
	"C": {ID: "C", Name: "钱塘君", Description: "天山派内门弟子，洞庭君的妹妹。", Avatar: "C"},
	"D": {ID: "D", Name: "萧白瑚", Description: "天山派外门弟子，年纪最小的弟子之一。", Avatar: "D"},
	"E": {ID: "E", Name: "姬姒", Description: "天山派内门弟子，归义军遗民。", Avatar: "E"},
	"F": {ID: "F", Name: "施延年", Description: "天山派外门弟子，藏经阁管理员。", Avatar: "F"},
	"G": {ID: "G", Name: "呼延显", Description: "天山派内门大师兄，破阵子之徒。", Avatar: "G"},
	"H": {ID: "H", Name: "雨烛", Description: "天山派内门弟子，破阵子长老的小徒弟。", Avatar: "H"},
	"I": {ID: "I", Name: "安慕", Description: "天山派外门弟子，伙房主厨。", Avatar: "I"},
}

// NPCNameToID is the reverse index of NPCs. Built at init so the two can
// never drift apart.
var NPCNameToID = func() map[string]string {
	m := make(map[string]string, len(NPCs))
	for id, npc := range NPCs {
		m[npc.Name] = id
	}
	return m
}()

// NPCIDs returns the roster IDs in stable order.
func NPCIDs() []string {
	return []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
}

// LocationNames maps location IDs to display names. "none" means the NPC
// is off-screen this week.
var LocationNames = map[string]string{
	"yanwuchang": "演武场",
	"cangjingge": "藏经阁",
	"huofang":    "伙房",
	"houshan":    "后山",
	"yishiting":  "议事厅",
	"tiejiangpu": "铁匠铺",
	"nandizi":    "男弟子房",
	"nvdizi":     "女弟子房",
	"shanmen":    "山门",
	"tianshanpai": "天山派",
	"none":       "none",
}

// LocationIDByName resolves a display name back to its location ID.
func LocationIDByName(name string) (string, bool) {
	for id, n := range LocationNames {
		if n == name {
			return id, true
		}
	}
	return "", false
}

// ActionConfig ties a weekly action to the talent that boosts it and the
// stat it raises.
type ActionConfig struct {
	TalentBonus string
	Affects     string
}

var ActionConfigs = map[string]ActionConfig{
	"练武":   {TalentBonus: "根骨", Affects: "武学"},
	"学习":   {TalentBonus: "悟性", Affects: "学识"},
	"打杂":   {TalentBonus: "根骨", Affects: "金钱"},
	"秘密赌场": {TalentBonus: "魅力", Affects: "金钱"},
	"探索":   {TalentBonus: "悟性", Affects: "金钱"},
	"汇报":   {TalentBonus: "悟性", Affects: "声望"},
	"打铁":   {TalentBonus: "心性", Affects: "金钱"},
	"休息":   {TalentBonus: "心性", Affects: "心情"},
	"拜访":   {TalentBonus: "魅力", Affects: "声望"},
	"下山":   {TalentBonus: "心性", Affects: "声望"},
}

// SparReward is granted when the player beats an NPC in a friendly match.
type SparReward struct {
	Stat  string
	Value int
}

var SparRewards = map[string]SparReward{
	"A": {Stat: "武学", Value: 2},
	"B": {Stat: "声望", Value: 2},
	"C": {Stat: "武学", Value: 1},
	"D": {Stat: "根骨", Value: 1},
	"E": {Stat: "武学", Value: 2},
	"F": {Stat: "学识", Value: 2},
	"G": {Stat: "武学", Value: 2},
	"H": {Stat: "心性", Value: 1},
	"I": {Stat: "根骨", Value: 1},
}

// NPCLocationProbability gives, per NPC, a discrete distribution over
// location IDs used to place the NPC when no directive exists. Each row
// must sum to 1.0.
var NPCLocationProbability = map[string]map[string]float64{
	"A": {"yanwuchang": 0.15, "cangjingge": 0.05, "huofang": 0.05, "houshan": 0.20, "yishiting": 0.20, "tiejiangpu": 0.05, "nandizi": 0.05, "nvdizi": 0.00, "shanmen": 0.05, "none": 0.20},
	"B": {"yanwuchang": 0.15, "cangjingge": 0.10, "huofang": 0.05, "houshan": 0.05, "yishiting": 0.35, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.15, "shanmen": 0.05, "none": 0.05},
	"C": {"yanwuchang": 0.15, "cangjingge": 0.05, "huofang": 0.05, "houshan": 0.30, "yishiting": 0.05, "tiejiangpu": 0.15, "nandizi": 0.00, "nvdizi": 0.15, "shanmen": 0.05, "none": 0.05},
	"D": {"yanwuchang": 0.20, "cangjingge": 0.05, "huofang": 0.20, "houshan": 0.20, "yishiting": 0.00, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.20, "shanmen": 0.05, "none": 0.05},
	"E": {"yanwuchang": 0.10, "cangjingge": 0.10, "huofang": 0.30, "houshan": 0.15, "yishiting": 0.05, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.15, "shanmen": 0.05, "none": 0.05},
	"F": {"yanwuchang": 0.05, "cangjingge": 0.55, "huofang": 0.05, "houshan": 0.05, "yishiting": 0.05, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.10, "shanmen": 0.05, "none": 0.05},
	"G": {"yanwuchang": 0.20, "cangjingge": 0.20, "huofang": 0.05, "houshan": 0.15, "yishiting": 0.10, "tiejiangpu": 0.05, "nandizi": 0.10, "nvdizi": 0.00, "shanmen": 0.05, "none": 0.10},
	"H": {"yanwuchang": 0.15, "cangjingge": 0.10, "huofang": 0.20, "houshan": 0.25, "yishiting": 0.05, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.15, "shanmen": 0.05, "none": 0.00},
	"I": {"yanwuchang": 0.05, "cangjingge": 0.05, "huofang": 0.50, "houshan": 0.15, "yishiting": 0.05, "tiejiangpu": 0.05, "nandizi": 0.00, "nvdizi": 0.10, "shanmen": 0.05, "none": 0.00},
}

// SLG display vocabularies. Free-form LLM tokens are resolved onto these
// closed lists by the fuzzy matcher.
var (
	SceneOptions = []string{
		"演武场", "藏经阁", "伙房", "后山", "议事厅", "铁匠铺",
		"男弟子房", "女弟子房", "山门", "天山派",
		"树林", "山道", "沙漠", "山谷", "废墟", "雪山", "河滩", "驿站", "峡谷",
	}
	SceneSynonyms = map[string]string{
		"戈壁": "沙漠",
		"荒漠": "沙漠",
		"森林": "树林",
		"林间": "树林",
		"官道": "山道",
		"破庙": "废墟",
		"河边": "河滩",
	}
	EmotionOptions = []string{
		"平静", "微笑", "大笑", "生气", "愤怒", "悲伤", "哭泣",
		"惊讶", "害羞", "脸红", "担忧", "思考", "无奈", "得意",
	}
	EmotionSynonyms = map[string]string{
		"开心": "微笑",
		"高兴": "微笑",
		"喜悦": "微笑",
		"恼怒": "生气",
		"惊恐": "惊讶",
		"忧虑": "担忧",
		"羞涩": "害羞",
	}
	CGOptions = []string{"none", "切磋", "拥抱", "牵手", "对酌", "抚琴"}
)

// Fuzzy match thresholds. Scene names are the loosest because the LLM
// invents landscape vocabulary freely.
const (
	SceneMatchThreshold   = 0.4
	EmotionMatchThreshold = 0.5
	NPCMatchThreshold     = 0.6
)

// Item describes one catalog entry. Equipment bonuses apply symmetrically
// on equip and unequip.
type Item struct {
	Description string `json:"description"`
	Tradable    bool   `json:"tradable"`
	BuyPrice    int    `json:"buy_price"`
	SellPrice   int    `json:"sell_price"`
	Equippable  bool   `json:"equippable"`
	EquipType   string `json:"equip_type"`  // 武器, 防具, 饰品
	EquipStat   string `json:"equip_stat"`  // 攻击力 or 生命值
	EquipValue  int    `json:"equip_value"`
	Usable      bool   `json:"usable"`
	UseStat     string `json:"use_stat"` // playerMood
	UseValue    int    `json:"use_value"`
}

// ItemCatalog is the full item table: pills, seeds, herbs and gear.
var ItemCatalog = map[string]Item{
	"大力丸":  {Description: "服用后短时间内力量大增。", Tradable: true, BuyPrice: 120, SellPrice: 60},
	"筋骨贴":  {Description: "舒筋活络的外用膏贴。", Tradable: true, BuyPrice: 80, SellPrice: 40},
	"金疮药":  {Description: "止血生肌的伤药。", Tradable: true, BuyPrice: 100, SellPrice: 50},
	"霹雳丸":  {Description: "遇敌时掷出可轰然炸响。", Tradable: true, BuyPrice: 200, SellPrice: 100},
	"小麦种子": {Description: "耐寒的麦种。", Tradable: true, BuyPrice: 10, SellPrice: 5},
	"茄子种子": {Description: "水灵的茄种。", Tradable: true, BuyPrice: 15, SellPrice: 7},
	"甜瓜种子": {Description: "香甜的瓜种。", Tradable: true, BuyPrice: 25, SellPrice: 12},
	"甘蔗种子": {Description: "西域甘蔗的种苗。", Tradable: true, BuyPrice: 30, SellPrice: 15},
	"丹参":   {Description: "活血化瘀的药材。", Tradable: true, BuyPrice: 40, SellPrice: 20},
	"当归":   {Description: "补血调经的药材。", Tradable: true, BuyPrice: 45, SellPrice: 22},
	"没药":   {Description: "散瘀止痛的西域药材。", Tradable: true, BuyPrice: 60, SellPrice: 30},
	"沉香":   {Description: "安神理气的名贵香料。", Tradable: true, BuyPrice: 150, SellPrice: 75},
	"烤饼":   {Description: "伙房新出炉的胡麻烤饼。", Tradable: true, BuyPrice: 20, SellPrice: 5, Usable: true, UseStat: "playerMood", UseValue: 10},
	"雪莲茶":  {Description: "以天山雪莲煎制的茶汤，提神醒脑。", Tradable: true, BuyPrice: 80, SellPrice: 30, Usable: true, UseStat: "playerMood", UseValue: 30},
	"铁剑":   {Description: "铁匠铺打造的制式长剑。", Tradable: true, BuyPrice: 300, SellPrice: 150, Equippable: true, EquipType: "武器", EquipStat: "攻击力", EquipValue: 10},
	"精钢剑":  {Description: "百炼精钢所铸，吹毛断发。", Tradable: true, BuyPrice: 800, SellPrice: 400, Equippable: true, EquipType: "武器", EquipStat: "攻击力", EquipValue: 25},
	"布甲":   {Description: "多层粗布压制的护甲。", Tradable: true, BuyPrice: 250, SellPrice: 125, Equippable: true, EquipType: "防具", EquipStat: "生命值", EquipValue: 25},
	"铁甲":   {Description: "镶嵌铁片的重甲。", Tradable: true, BuyPrice: 700, SellPrice: 350, Equippable: true, EquipType: "防具", EquipStat: "生命值", EquipValue: 60},
	"平安符":  {Description: "据说能保佑平安的符箓。", Tradable: true, BuyPrice: 200, SellPrice: 100, Equippable: true, EquipType: "饰品", EquipStat: "生命值", EquipValue: 15},
	"玉佩":   {Description: "温润的和田玉佩。", Tradable: true, BuyPrice: 500, SellPrice: 250, Equippable: true, EquipType: "饰品", EquipStat: "攻击力", EquipValue: 5},
}

// Equipment slot names.
var EquipmentSlots = []string{"武器", "防具", "饰品1", "饰品2"}

// Favorability change categories reported by the narrator.
type FavorCategory string

const (
	FavorSteepDown FavorCategory = "大幅下降"
	FavorDown      FavorCategory = "下降"
	FavorNone      FavorCategory = "不变"
	FavorUp        FavorCategory = "上升"
	FavorSteepUp   FavorCategory = "大幅上升"
)

// FavorDeltaTable maps a change category and difficulty to the signed
// base delta. Unknown categories resolve to zero via the ok check at the
// call site.
var FavorDeltaTable = map[FavorCategory]map[Difficulty]int{
	FavorSteepDown: {DifficultyEasy: -2, DifficultyNormal: -2, DifficultyHard: -4},
	FavorDown:      {DifficultyEasy: -1, DifficultyNormal: -1, DifficultyHard: -2},
	FavorNone:      {DifficultyEasy: 0, DifficultyNormal: 0, DifficultyHard: 0},
	FavorUp:        {DifficultyEasy: 2, DifficultyNormal: 1, DifficultyHard: 1},
	FavorSteepUp:   {DifficultyEasy: 4, DifficultyNormal: 2, DifficultyHard: 2},
}

// SeasonNames maps season IDs to display names.
var SeasonNames = map[string]string{
	"spring": "春天",
	"summer": "夏天",
	"autumn": "秋天",
	"winter": "冬天",
}

// DefaultMartialArts is the known technique list, all unlearned.
func DefaultMartialArts() map[string]int {
	return map[string]int{
		"太白仙迹": 0, "岱宗如何": 0, "掠风窃尘": 0, "流云飞袖": 0,
		"惊鸿照影": 0, "踏雪无痕": 0, "醉卧沙场": 0, "万剑归宗": 0,
	}
}
