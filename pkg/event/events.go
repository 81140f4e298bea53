package event

import "log/slog"

func f(v float64) *float64 { return &v }

// BuiltinEvents is the shipped rule table: the six-part apprenticeship
// storyline chained through currentSpecialEvent, plus standalone hooks.
// Scripted text uses the same tagged envelope as live narrator output
// and replays through the regular parser.
var BuiltinEvents = []*Event{
	{
		ID:       "Apprenticeship_Storyline_1",
		Name:     "收徒测试·启程",
		Priority: 100,
		Conditions: map[string]Condition{
			"currentWeek": {Min: f(2)},
		},
		Effects: map[string]Effect{
			"GameMode":     {Set: float64(1)},
			"inputEnable":  {Set: float64(0)},
			"mapLocation":  {Set: "天山派外堡"},
			"companionNPC": {Push: "苓雪妃"},
		},
		Text: `<SLG_MODE><MAIN_TEXT>
清晨的钟声自议事厅传来，连敲三响。掌门传令，命你随师姐下山，前往天山派外堡接应今年的收徒测试。|none|山道|none|none
苓雪妃立在山道口，青衫束剑，见你来了只是点头。"路上少说话，多看。外堡的人，未必都盼着这场测试顺利。"|none|山道|平静|none
山风卷着碎雪掠过两人衣角。远处外堡的轮廓在云雾间若隐若现。|none|雪山|none|none
</MAIN_TEXT><SUMMARY>掌门命{{user}}随苓雪妃前往天山派外堡，协办收徒测试。</SUMMARY><SIDE_NOTE>{"时间":"10:30","用户":{"位置变动":"山道"},"随机事件":{"事件类型":"选项事件","事件描述":"苓雪妃在前方等候，山道在脚下延伸。","选项一":{"描述":"特殊剧情: 继续","奖励":"","成功率":"100%"}}}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "Apprenticeship_Storyline_2",
		Name:     "收徒测试·外堡",
		Priority: 99,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "Apprenticeship_Storyline_1"},
		},
		Effects: map[string]Effect{},
		Text: `<SLG_MODE><MAIN_TEXT>
外堡的木门吱呀推开，堡内人声嘈杂。数十名前来应试的少年挤在演武台下，有人兴奋，有人不安。|none|驿站|none|none
堡主迎上前来，目光在你和苓雪妃之间转了一圈。"两位来得正好。今年报名的人数翻了一倍，只是……名册对不上。"|none|驿站|担忧|none
苓雪妃接过名册翻看，眉头渐渐皱起。多出的名字笔迹生硬，像是临时添上去的。|none|驿站|思考|none
</MAIN_TEXT><SUMMARY>外堡名册出现了来历不明的报名者。</SUMMARY><SIDE_NOTE>{"时间":"13:00","随机事件":{"事件类型":"选项事件","事件描述":"名册上多出的名字透着古怪。","选项一":{"描述":"特殊剧情: 继续","奖励":"","成功率":"100%"}}}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "Apprenticeship_Storyline_3",
		Name:     "收徒测试·试炼",
		Priority: 98,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "Apprenticeship_Storyline_2"},
		},
		Effects: map[string]Effect{},
		Text: `<SLG_MODE><MAIN_TEXT>
测试照常开始。少年们依次登台演武，你负责记录，苓雪妃坐镇台侧。|none|驿站|none|none
轮到一个瘦削的灰衣少年时，他的步法让你心头一凛。那不是初学者该有的根基，倒像是刻意藏拙。|none|驿站|惊讶|none
苓雪妃不动声色地在名册上划了个记号，向你递了个眼色。|none|驿站|平静|none
</MAIN_TEXT><SUMMARY>试炼中发现一名藏拙的灰衣少年。</SUMMARY><SIDE_NOTE>{"时间":"15:00","随机事件":{"事件类型":"选项事件","事件描述":"灰衣少年的身法绝非新手。","选项一":{"描述":"特殊剧情: 继续","奖励":"","成功率":"100%"}}}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "Apprenticeship_Storyline_4",
		Name:     "收徒测试·夜探",
		Priority: 97,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "Apprenticeship_Storyline_3"},
		},
		Effects: map[string]Effect{},
		Text: `<SLG_MODE><MAIN_TEXT>
入夜后，你与苓雪妃分头盯住客房。三更时分，灰衣少年翻窗而出，直奔外堡后墙。|none|废墟|none|none
墙下早有人接应。火折子一闪，照出半张覆着面巾的脸。"东西到手了么？"|none|废墟|none|none
苓雪妃的剑已出鞘半寸。"看来今年的测试，考的不只是弟子。"|none|废墟|生气|none
</MAIN_TEXT><SUMMARY>灰衣少年夜会外人，图谋外堡中的某物。</SUMMARY><SIDE_NOTE>{"时间":"23:30","随机事件":{"事件类型":"选项事件","事件描述":"墙下的接应者尚未察觉你们。","选项一":{"描述":"特殊剧情: 继续","奖励":"","成功率":"100%"}}}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "Apprenticeship_Storyline_5",
		Name:     "收徒测试·擒获",
		Priority: 96,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "Apprenticeship_Storyline_4"},
		},
		Effects: map[string]Effect{},
		Text: `<SLG_MODE><MAIN_TEXT>
苓雪妃长剑出鞘，寒光先至。接应者仓皇拆招，三合之内兵刃脱手。|none|废墟|none|none
灰衣少年见势不妙转身欲逃，却被你拦住去路。几番缠斗后，他终于弃械跪地。|none|废墟|none|none
搜出的密信上盖着陌生的火漆印。苓雪妃收起信件，长出一口气。"回山，交给掌门定夺。"|none|废墟|无奈|none
</MAIN_TEXT><SUMMARY>截获密信，擒下混入测试的细作。</SUMMARY><SIDE_NOTE>{"时间":"00:30","随机事件":{"事件类型":"选项事件","事件描述":"细作已擒，密信在手。","选项一":{"描述":"特殊剧情: 继续","奖励":"","成功率":"100%"}}}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "Apprenticeship_Storyline_6",
		Name:     "收徒测试·归山",
		Priority: 95,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "Apprenticeship_Storyline_5"},
		},
		Effects: map[string]Effect{
			"GameMode":     {Set: float64(0)},
			"inputEnable":  {Set: float64(1)},
			"mapLocation":  {Set: "天山派"},
			"companionNPC": {Set: []interface{}{}},
			"userLocation": {Set: "nvdizi"},
		},
		Text: `<SLG_MODE><MAIN_TEXT>
归山的路上雪停了。掌门听完禀报，沉默良久，只说了一句"辛苦"。|none|雪山|none|none
苓雪妃在弟子房前与你道别。"这次的事，你做得不错。"说完她顿了顿，唇角浮起一点极淡的笑意。|none|树林|微笑|none
收徒测试尘埃落定，山中的日子又回到原来的节奏。只是你知道，有些东西已经不一样了。|none|树林|none|none
</MAIN_TEXT><SUMMARY>细作一案了结，{{user}}随苓雪妃归山复命，生活恢复如常。</SUMMARY><SIDE_NOTE>{"时间":"18:30"}</SIDE_NOTE></SLG_MODE>`,
	},
	{
		ID:       "event_qiantangjun_invitation",
		Name:     "钱塘君的邀约",
		Priority: 20,
		Conditions: map[string]Condition{
			"currentWeek":       {Min: f(999)},
			"npcFavorability.C": {Min: f(100)},
		},
		Effects: map[string]Effect{
			"playerStats.声望": {Add: f(3)},
		},
		Text: `<SLG_MODE><MAIN_TEXT>
钱塘君遣人送来一封烫金请帖，邀你赴洞庭一叙。|钱塘君|河滩|微笑|none
</MAIN_TEXT><SUMMARY>钱塘君发来赴洞庭的邀约。</SUMMARY><SIDE_NOTE>{"时间":"09:00"}</SIDE_NOTE></SLG_MODE>`,
	},
}

// NewBuiltinEngine wires the shipped rule table.
func NewBuiltinEngine(logger *slog.Logger) *Engine {
	return NewEngine(BuiltinEvents, logger)
}
