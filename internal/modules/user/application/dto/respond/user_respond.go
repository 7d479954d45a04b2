package respond

// AuthRespond 注册/登录返回
type AuthRespond struct {
	Uuid      string `json:"uuid"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CompanyId string `json:"company_id"`
	IsAdmin   bool   `json:"is_admin"`
	Token     string `json:"token"`
}
