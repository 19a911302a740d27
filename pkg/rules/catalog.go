package rules

// builtinRules is the full detection catalog. Ids are stable and referenced
// by configuration disabled_rules entries; do not renumber.
var builtinRules = []Rule{
	// Code execution (Python)
	{ID: "SEC001", Kind: KindAST, Pattern: "eval($$$)", Message: "eval() - code injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC002", Kind: KindAST, Pattern: "exec($$$)", Message: "exec() - code injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC003", Kind: KindAST, Pattern: "__import__($$$)", Message: "__import__() - dynamic import risk", Category: CategoryCodeInjection, Severity: SeverityWarning, Languages: []string{"python"}},
	{ID: "SEC004", Kind: KindAST, Pattern: "os.system($$$)", Message: "os.system() - command injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC005", Kind: KindAST, Pattern: "os.popen($$$)", Message: "os.popen() - command injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC006", Kind: KindAST, Pattern: "pickle.loads($$$)", Message: "pickle.loads() - arbitrary code execution risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"python"}},

	// Code execution (TypeScript/JavaScript)
	{ID: "SEC007", Kind: KindAST, Pattern: "eval($$$)", Message: "eval() - code injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC008", Kind: KindStructural, Pattern: "new Function($$$)", Message: "new Function() - code injection risk", Category: CategoryCodeInjection, Severity: SeverityError, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC009", Kind: KindStructural, Pattern: "innerHTML = $$$", Message: "innerHTML assignment - XSS risk", Category: CategoryCodeInjection, Severity: SeverityWarning, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC010", Kind: KindStructural, Pattern: "dangerouslySetInnerHTML", Message: "dangerouslySetInnerHTML - XSS risk", Category: CategoryCodeInjection, Severity: SeverityWarning, Languages: []string{"typescript", "javascript"}},

	// Code execution (Go)
	{ID: "SEC011", Kind: KindAST, Pattern: "exec.Command($$$)", Message: "exec.Command() - command injection risk", Category: CategoryCodeInjection, Severity: SeverityWarning, Languages: []string{"go"}},
	{ID: "SEC012", Kind: KindAST, Pattern: "os.Exec($$$)", Message: "os.Exec() - command injection risk", Category: CategoryCodeInjection, Severity: SeverityWarning, Languages: []string{"go"}},

	// Script quality
	{ID: "Q001", Kind: KindStructural, Pattern: "except:", Message: "Bare except catches all exceptions including SystemExit", Category: CategoryQuality, Severity: SeverityWarning, Languages: []string{"python"}},

	// Filesystem destruction
	{ID: "SEC013", Kind: KindAST, Pattern: "shutil.rmtree($$$)", Message: "shutil.rmtree() - recursive directory deletion", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC014", Kind: KindAST, Pattern: "os.remove($$$)", Message: "os.remove() - file deletion", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC015", Kind: KindAST, Pattern: "os.unlink($$$)", Message: "os.unlink() - file deletion", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC016", Kind: KindAST, Pattern: "os.rmdir($$$)", Message: "os.rmdir() - directory deletion", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC017", Kind: KindAST, Pattern: "fs.rm($$$)", Message: "fs.rm() - file/directory removal", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC018", Kind: KindAST, Pattern: "fs.unlink($$$)", Message: "fs.unlink() - file deletion", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC019", Kind: KindAST, Pattern: "os.RemoveAll($$$)", Message: "os.RemoveAll() - recursive directory removal", Category: CategoryFileSystem, Severity: SeverityError, Languages: []string{"go"}},

	// Sensitive file access
	{ID: "SEC020", Kind: KindRegex, Pattern: `"\.env"`, Message: ".env file access - may contain sensitive credentials", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC021", Kind: KindRegex, Pattern: `'\.env'`, Message: ".env file access - may contain sensitive credentials", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC022", Kind: KindRegex, Pattern: `"/\.ssh/"`, Message: "SSH directory access - may contain private keys", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC023", Kind: KindRegex, Pattern: `'/.ssh/'`, Message: "SSH directory access - may contain private keys", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC024", Kind: KindRegex, Pattern: `"/\.aws/"`, Message: "AWS directory access - may contain credentials", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC025", Kind: KindRegex, Pattern: `'/.aws/'`, Message: "AWS directory access - may contain credentials", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC026", Kind: KindRegex, Pattern: `"/\.config/"`, Message: ".config directory access - may contain sensitive configs", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC027", Kind: KindRegex, Pattern: `'/.config/'`, Message: ".config directory access - may contain sensitive configs", Category: CategorySensitiveFile, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC028", Kind: KindRegex, Pattern: `"/etc/passwd"`, Message: "/etc/passwd access - system file", Category: CategorySensitiveFile, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC029", Kind: KindRegex, Pattern: `'/etc/passwd'`, Message: "/etc/passwd access - system file", Category: CategorySensitiveFile, Severity: SeverityError, Languages: []string{"all"}},

	// Network download
	{ID: "SEC030", Kind: KindAST, Pattern: "urllib.request.urlopen($$$)", Message: "urllib.request.urlopen() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"python"}},
	{ID: "SEC031", Kind: KindAST, Pattern: "requests.get($$$)", Message: "requests.get() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"python"}},
	{ID: "SEC032", Kind: KindAST, Pattern: "httpx.get($$$)", Message: "httpx.get() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"python"}},
	{ID: "SEC033", Kind: KindAST, Pattern: "fetch($$$)", Message: "fetch() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC034", Kind: KindAST, Pattern: "axios.get($$$)", Message: "axios.get() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"typescript", "javascript"}},
	{ID: "SEC035", Kind: KindAST, Pattern: "http.Get($$$)", Message: "http.Get() - downloading content from URL", Category: CategoryNetwork, Severity: SeverityWarning, Languages: []string{"go"}},

	// Download and execute
	{ID: "SEC036", Kind: KindRegex, Pattern: `curl.*\|.*sh`, Message: "curl piped to shell - download and execute", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC037", Kind: KindRegex, Pattern: `wget.*\|.*sh`, Message: "wget piped to shell - download and execute", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC038", Kind: KindRegex, Pattern: `curl.*\|.*bash`, Message: "curl piped to bash - download and execute", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC039", Kind: KindRegex, Pattern: `wget.*\|.*bash`, Message: "wget piped to bash - download and execute", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC040", Kind: KindRegex, Pattern: `exec\(.*urlopen`, Message: "exec() with urlopen - executing downloaded code", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC041", Kind: KindRegex, Pattern: `exec\(.*requests\.get`, Message: "exec() with requests.get - executing downloaded code", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC042", Kind: KindRegex, Pattern: `eval\(.*urlopen`, Message: "eval() with urlopen - executing downloaded code", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"python"}},
	{ID: "SEC043", Kind: KindRegex, Pattern: `eval\(.*fetch\(`, Message: "eval() with fetch() - executing downloaded code", Category: CategoryDownloadExec, Severity: SeverityError, Languages: []string{"typescript", "javascript"}},

	// Untrusted package installs
	{ID: "SEC044", Kind: KindRegex, Pattern: `pip install.*http://`, Message: "pip install from HTTP URL - insecure package source", Category: CategoryPackageInstall, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC045", Kind: KindRegex, Pattern: `pip install.*https://`, Message: "pip install from HTTPS URL - external package source", Category: CategoryPackageInstall, Severity: SeverityWarning, Languages: []string{"all"}},
	{ID: "SEC046", Kind: KindRegex, Pattern: `subprocess.*pip install.*http`, Message: "subprocess pip install from URL - installing external package", Category: CategoryPackageInstall, Severity: SeverityWarning, Languages: []string{"python"}},
	{ID: "SEC047", Kind: KindRegex, Pattern: `npm install.*http://`, Message: "npm install from HTTP URL - insecure package source", Category: CategoryPackageInstall, Severity: SeverityError, Languages: []string{"all"}},
	{ID: "SEC048", Kind: KindRegex, Pattern: `npm install.*git\+`, Message: "npm install from git URL - external package source", Category: CategoryPackageInstall, Severity: SeverityWarning, Languages: []string{"all"}},
}
