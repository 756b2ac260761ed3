// Package view models the capture and browse screens as pure reducers.
//
// A reducer takes the current screen state and one user event and returns the
// next state plus the side effects to perform. Runner performs those effects
// against the journal service; rendering stays with the host.
package view

import "fmt"

// User-facing notices.
const (
	NoticeEmptySubmit     = "请输入记录内容或添加图片！"
	NoticeRecorded        = "记录成功！"
	NoticeNotImage        = "请上传图片文件！"
	NoticeEmptyEdit       = "🐱 记仇内容不能为空哦！"
	NoticeUpdated         = "✅ 记录已更新！"
	PromptDelete          = "🐱 确定要删除这条记仇记录吗？😿"
	NoticeDeleted         = "🗑️ 记录已删除！"
	NoticeNothingToExport = "没有记录可导出！"
	NoticeExported        = "导出成功！"
	NoticeNothingImported = "没有从CSV文件中导入任何记录！"
)

// ImportedNotice reports a successful import of n records.
func ImportedNotice(n int) string {
	return fmt.Sprintf("成功导入 %d 条记录！", n)
}

// ImportFailedNotice reports an import that failed for a reason other than empty input.
func ImportFailedNotice(err error) string {
	return "导入失败：" + err.Error()
}

// Effect is a side effect requested by a reducer.
type Effect interface {
	effect()
}

// Notice shows a blocking message to the user.
type Notice struct {
	Text string
}

// CreateRecord stores a new record.
type CreateRecord struct {
	Text   string
	Images []string
}

// UpdateText replaces the text of record ID.
type UpdateText struct {
	ID   int64
	Text string
}

// DeleteRecord removes record ID.
type DeleteRecord struct {
	ID int64
}

// ConfirmDelete asks the user to confirm deleting record ID. The host answers
// with a DeleteConfirmed event.
type ConfirmDelete struct {
	ID     int64
	Prompt string
}

func (Notice) effect()        {}
func (CreateRecord) effect()  {}
func (UpdateText) effect()    {}
func (DeleteRecord) effect()  {}
func (ConfirmDelete) effect() {}

func notice(text string) []Effect {
	return []Effect{Notice{Text: text}}
}
