package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CheckCommandTestSuite struct {
	suite.Suite
	dir    string
	config string
}

func (s *CheckCommandTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.config = filepath.Join(s.dir, "config.yaml")
	s.write("config.yaml", "log_level: error\ncontent:\n  dir: "+filepath.Join(s.dir, "blog")+"\n")
}

func TestCheckCommandTestSuite(t *testing.T) {
	suite.Run(t, new(CheckCommandTestSuite))
}

func (s *CheckCommandTestSuite) write(name, body string) {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o644))
}

func (s *CheckCommandTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", s.config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (s *CheckCommandTestSuite) TestCheck_ValidDirectory() {
	s.write("blog/local-seo.mdx", `---
title: Local SEO basics
slug: local-seo-basics
authorName: Dana Reyes
status: published
modifiedAt: "2024-03-01T00:00:00Z"
category: local-seo
---
Body.
`)

	out, err := s.run("check")

	s.Require().NoError(err)
	s.Contains(out, "1 post(s), 1 categor(ies) ok")
}

func (s *CheckCommandTestSuite) TestCheck_ReportsEveryField() {
	s.write("blog/broken.mdx", `---
slug: Not A Slug
status: archived
---
Body.
`)

	out, err := s.run("check")

	s.Require().Error(err)
	s.Contains(err.Error(), "1 invalid file(s)")
	s.Contains(out, "broken.mdx: title:")
	s.Contains(out, "broken.mdx: slug:")
	s.Contains(out, "broken.mdx: status:")
}

func (s *CheckCommandTestSuite) TestCheck_DirArgument() {
	other := filepath.Join(s.dir, "empty")
	s.Require().NoError(os.MkdirAll(other, 0o755))

	out, err := s.run("check", other)

	s.Require().NoError(err)
	s.Contains(out, "0 post(s), 0 categor(ies) ok")
}
