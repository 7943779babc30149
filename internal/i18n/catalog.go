package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	zh := language.SimplifiedChinese
	for _, kv := range [][2]string{
		{`"%s" is synchronized`, `"%s" 已同步`},
		{`"%s" is being uploaded`, `"%s" 正在上传`},
		{`Error when syncing "%s"`, `同步 "%s" 时出错`},
		{`Error when syncing`, `同步时出错`},
		{`Libraries are ready`, `资料库已就绪`},
		{`All libraries are loaded and ready to use.`, `所有资料库已加载，可以使用。`},
		{`Starting to move "%s"`, `开始移动 "%s"`},
		{`Starting to move "%s" to "%s"`, `开始移动 "%s" 到 "%s"`},
		{`Successfully moved "%s"`, `成功移动 "%s"`},
		{`Successfully moved "%s" to "%s"`, `成功移动 "%s" 到 "%s"`},
		{`Failed to move "%s"`, `移动 "%s" 失败`},
		{`Failed to move "%s" to "%s"`, `移动 "%s" 到 "%s" 失败`},
		{`Deleted "%s" and %s more files.`, `删除了 "%s" 和另外 %s 个文件。`},
		{`Do you want to delete files in library "%s" ?`, `是否删除资料库 "%s" 中的文件？`},
		{`Deleted library "%s"`, `删除了资料库 "%s"`},
		{`Confirm to delete library "%s" ?`, `确认删除资料库 "%s"？`},
		{`Download file`, `下载文件`},
		{`Start to download file "%s" `, `开始下载文件 "%s" `},
		{`file "%s" has been downloaded `, `文件 "%s" 已下载 `},
		{`Failed to create file "%s"`, `创建文件 "%s" 失败`},
		{`You can't create files in the mount folder directly ("%s")`, `不能直接在挂载目录中创建文件（"%s"）`},
		{`Failed to delete folder`, `删除文件夹失败`},
		{`You can't delete the library "%s" directly`, `不能直接删除资料库 "%s"`},
		{`Added "%s".`, `添加了 "%s"。`},
		{`Deleted "%s".`, `删除了 "%s"。`},
		{`Modified "%s".`, `修改了 "%s"。`},
		{`Renamed "%s".`, `重命名了 "%s"。`},
		{`Moved "%s".`, `移动了 "%s"。`},
		{`Added directory "%s".`, `新建了目录 "%s"。`},
		{`Removed directory "%s".`, `删除了目录 "%s"。`},
		{`Added "%s" and %s more files.`, `添加了 "%s" 和另外 %s 个文件。`},
		{`Modified "%s" and %s more files.`, `修改了 "%s" 和另外 %s 个文件。`},
	} {
		_ = message.SetString(zh, kv[0], kv[1])
	}
}
