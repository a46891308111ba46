package models

type Round struct {
	ID      int `json:"id"`
	StageID int `json:"stage_id"`
	GroupID int `json:"group_id"`
	Number  int `json:"number"`
}
