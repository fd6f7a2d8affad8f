//go:build windows

package steamcmd

import (
	"archive/zip"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/utils"
)

func ExtractArchive(file *os.File) error {

	log.Println("Extracting Steam CMD...")

	reader, err := zip.OpenReader(file.Name())
	if err != nil {
		return err
	}

	for _, zipFile := range reader.File {
		target := filepath.Join(SteamDir, zipFile.Name)

		if !strings.HasPrefix(target, filepath.Clean(SteamDir)+string(os.PathSeparator)) {
			continue
		}

		if zipFile.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		utils.CreateFolder(path.Dir(target))

		src, err := zipFile.Open()
		if err != nil {
			return err
		}

		dst, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR, os.ModePerm)
		if err != nil {
			src.Close()
			return err
		}

		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			src.Close()
			return err
		}

		dst.Close()
		src.Close()
	}

	err = reader.Close()
	utils.CheckError(err)

	err = file.Close()
	utils.CheckError(err)

	err = os.Remove(file.Name())
	utils.CheckError(err)

	log.Println("Extracted Steam CMD")

	return nil
}
