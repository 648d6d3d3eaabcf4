package zotero

// ItemData 创建条目时提交的字段，只保留会议论文用得到的部分
type ItemData struct {
	ItemType       string    `json:"itemType"`
	Title          string    `json:"title"`
	Creators       []Creator `json:"creators,omitempty"`
	Date           string    `json:"date,omitempty"`
	URL            string    `json:"url,omitempty"`
	ConferenceName string    `json:"conferenceName,omitempty"`
	Extra          string    `json:"extra,omitempty"`
	Tags           []Tag     `json:"tags,omitempty"`
	Collections    []string  `json:"collections,omitempty"`
}

// Creator 作者；无法拆分姓和名时只填 Name
type Creator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Name        string `json:"name,omitempty"`
}

type Tag struct {
	Tag  string `json:"tag"`
	Type int    `json:"type,omitempty"` // 0=用户标签, 1=自动标签
}

/*
POST /users/{userID}/items 的响应：

	{
	  "successful": {"0": {...}},
	  "unchanged": {},
	  "failed": {"1": {"key": "...", "code": 400, "message": "..."}}
	}

409 目标库被锁定，413 单次提交过多（上限 50）
*/
type CreateResponse struct {
	Successful map[string]any        `json:"successful"`
	Unchanged  map[string]any        `json:"unchanged"`
	Failed     map[string]FailedItem `json:"failed"`
}

type FailedItem struct {
	Key     string `json:"key"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
